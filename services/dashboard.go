package services

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/matchers"
	"github.com/kova98/redditsentiment.api/metrics"
	"github.com/kova98/redditsentiment.api/models"
	"github.com/kova98/redditsentiment.api/sentiment"
)

type MonitorConfig interface {
	Subreddits(ctx context.Context) ([]string, error)
	Keywords(ctx context.Context) ([]string, error)
}

type MentionSource interface {
	FetchMentions(ctx context.Context, subreddits, keywords []string, limit int) ([]models.Post, error)
	FetchPosts(ctx context.Context, ids []string) ([]models.Post, error)
}

type TriageLister interface {
	List(ctx context.Context) ([]string, error)
}

// Aggregator builds the dashboard view: recent mentions plus every triaged post,
// scored and classified once.
type Aggregator struct {
	logger     *slog.Logger
	config     MonitorConfig
	mentions   MentionSource
	triage     map[enums.TriageSet]TriageLister
	scorer     *sentiment.Scorer
	classifier *matchers.OpportunityClassifier
	limit      int
}

func NewAggregator(
	logger *slog.Logger,
	config MonitorConfig,
	mentions MentionSource,
	triage map[enums.TriageSet]TriageLister,
	scorer *sentiment.Scorer,
	classifier *matchers.OpportunityClassifier,
	limit int,
) *Aggregator {
	return &Aggregator{
		logger:     logger,
		config:     config,
		mentions:   mentions,
		triage:     triage,
		scorer:     scorer,
		classifier: classifier,
		limit:      limit,
	}
}

func (a *Aggregator) Dashboard(ctx context.Context) (models.DashboardResponse, error) {
	subreddits, keywords, posts, err := a.recent(ctx)
	if err != nil {
		return models.DashboardResponse{}, err
	}

	sets := make(map[enums.TriageSet][]string, len(enums.TriageSets))
	for _, set := range enums.TriageSets {
		ids, err := a.triageIDs(ctx, set)
		if err != nil {
			return models.DashboardResponse{}, err
		}
		sets[set] = ids
	}

	engaged := make(map[string]bool, len(sets[enums.TriageEngaged]))
	for _, id := range sets[enums.TriageEngaged] {
		engaged[id] = true
	}

	present := make(map[string]bool, len(posts))
	for i := range posts {
		posts[i].Engaged = engaged[posts[i].ID]
		present[posts[i].ID] = true
	}

	// Triaged posts that fell out of the mention window are looked up by id,
	// flagged first, then engaged, then ignored.
	for _, set := range enums.TriageSets {
		var missing []string
		for _, id := range sets[set] {
			if !present[id] {
				missing = append(missing, id)
			}
		}
		if len(missing) == 0 {
			continue
		}

		fetched, err := a.mentions.FetchPosts(ctx, missing)
		if err != nil {
			return models.DashboardResponse{}, errors.Wrapf(err, "fetch %s posts", set)
		}
		for _, post := range fetched {
			if present[post.ID] {
				continue
			}
			post.Engaged = engaged[post.ID]
			posts = append(posts, post)
			present[post.ID] = true
		}
	}

	a.analyze(posts)
	average := sentiment.AverageScore(posts)

	opportunities := 0
	for _, p := range posts {
		if p.Status == enums.PostStatusOpportunity {
			opportunities++
		}
	}

	metrics.DashboardPosts.Set(float64(len(posts)))
	a.logger.Debug("dashboard aggregated", "posts", len(posts), "opportunities", opportunities)

	return models.DashboardResponse{
		Posts:               posts,
		AverageSentiment:    average,
		FlaggedIDs:          sets[enums.TriageFlagged],
		EngagedIDs:          sets[enums.TriageEngaged],
		IgnoredIDs:          sets[enums.TriageIgnored],
		MonitoredSubreddits: subreddits,
		Keywords:            keywords,
		Stats: models.DashboardStats{
			TotalMentions:    len(posts),
			FlaggedCount:     len(sets[enums.TriageFlagged]),
			IgnoredCount:     len(sets[enums.TriageIgnored]),
			EngagedCount:     len(sets[enums.TriageEngaged]),
			Opportunities:    opportunities,
			AverageSentiment: average,
		},
	}, nil
}

func (a *Aggregator) RecentMentions(ctx context.Context) (models.RecentMentionsResponse, error) {
	_, _, posts, err := a.recent(ctx)
	if err != nil {
		return models.RecentMentionsResponse{}, err
	}

	a.analyze(posts)

	return models.RecentMentionsResponse{
		Posts:            posts,
		AverageSentiment: sentiment.AverageScore(posts),
	}, nil
}

func (a *Aggregator) recent(ctx context.Context) (subreddits, keywords []string, posts []models.Post, err error) {
	subreddits, err = a.config.Subreddits(ctx)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "get monitored subreddits")
	}
	keywords, err = a.config.Keywords(ctx)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "get keywords")
	}

	posts, err = a.mentions.FetchMentions(ctx, subreddits, keywords, a.limit)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "fetch mentions")
	}

	return subreddits, keywords, posts, nil
}

// triageIDs lists a set with duplicates removed, keeping first occurrence order.
func (a *Aggregator) triageIDs(ctx context.Context, set enums.TriageSet) ([]string, error) {
	lister, ok := a.triage[set]
	if !ok {
		return []string{}, nil
	}

	ids, err := lister.List(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s posts", set)
	}

	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique, nil
}

// analyze scores and classifies every post in place, exactly once.
func (a *Aggregator) analyze(posts []models.Post) {
	for i := range posts {
		posts[i].Score, posts[i].Sentiment = a.scorer.Analyze(posts[i].Text())
		posts[i].Status = a.classifier.Classify(posts[i])
	}
}
