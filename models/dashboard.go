package models

type DashboardStats struct {
	TotalMentions    int     `json:"total_mentions"`
	FlaggedCount     int     `json:"flagged_count"`
	IgnoredCount     int     `json:"ignored_count"`
	EngagedCount     int     `json:"engaged_count"`
	Opportunities    int     `json:"opportunities"`
	AverageSentiment float64 `json:"average_sentiment"`
}

type DashboardResponse struct {
	Posts               []Post         `json:"posts"`
	AverageSentiment    float64        `json:"average_sentiment"`
	FlaggedIDs          []string       `json:"flagged_ids"`
	EngagedIDs          []string       `json:"engaged_ids"`
	IgnoredIDs          []string       `json:"ignored_ids"`
	MonitoredSubreddits []string       `json:"monitored_subreddits"`
	Keywords            []string       `json:"keywords"`
	Stats               DashboardStats `json:"stats"`
	Error               string         `json:"error,omitempty"`
}

// EmptyDashboard is the degraded response served when aggregation fails.
func EmptyDashboard(message string) DashboardResponse {
	return DashboardResponse{
		Posts:               []Post{},
		FlaggedIDs:          []string{},
		EngagedIDs:          []string{},
		IgnoredIDs:          []string{},
		MonitoredSubreddits: []string{},
		Keywords:            []string{},
		Error:               message,
	}
}

type RecentMentionsResponse struct {
	Posts            []Post  `json:"posts"`
	AverageSentiment float64 `json:"average_sentiment"`
}
