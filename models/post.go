package models

import (
	"time"

	"github.com/kova98/redditsentiment.api/enums"
)

// Post is a mention shaped for the dashboard. It only lives for one response.
type Post struct {
	ID        string           `json:"id"`
	Subreddit string           `json:"subreddit"`
	Title     string           `json:"title"`
	Author    string           `json:"author"`
	URL       string           `json:"url"`
	Upvotes   int              `json:"upvotes"`
	Comments  int              `json:"comments"`
	Sentiment enums.Sentiment  `json:"sentiment"`
	Score     float64          `json:"score"`
	Status    enums.PostStatus `json:"status"`
	Engaged   bool             `json:"engaged"`
	Keywords  []string         `json:"keywords"`
	CreatedAt time.Time        `json:"createdAt"`
	TimeAgo   string           `json:"timeAgo"`
	Language  string           `json:"language,omitempty"`
	Body      string           `json:"-"`
}

// Text is the content scored and matched against keywords.
func (p Post) Text() string {
	if p.Body == "" {
		return p.Title
	}
	return p.Title + " " + p.Body
}
