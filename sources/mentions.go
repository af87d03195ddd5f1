package sources

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/matchers"
	"github.com/kova98/redditsentiment.api/models"
)

const anonymousAuthor = "anonymous"

// PostSource is the subset of the Reddit API the fetcher needs.
type PostSource interface {
	Search(ctx context.Context, subreddit, query string, limit int) ([]models.RedditPost, error)
	GetPosts(ctx context.Context, ids []string) ([]models.RedditPost, error)
}

type MentionFetcher struct {
	logger   *slog.Logger
	source   PostSource
	language *LanguageDetector
	now      func() time.Time
}

func NewMentionFetcher(logger *slog.Logger, source PostSource, language *LanguageDetector) *MentionFetcher {
	return &MentionFetcher{
		logger:   logger,
		source:   source,
		language: language,
		now:      time.Now,
	}
}

// FetchMentions searches every (subreddit, keyword) pair for the newest limit posts.
// A post is kept only if the keyword literally appears in its title or body, and only
// the first time its id is seen; later keywords matching the same post are not merged.
// Upstream errors abort the whole fetch.
func (f *MentionFetcher) FetchMentions(ctx context.Context, subreddits, keywords []string, limit int) ([]models.Post, error) {
	mentions := make([]models.Post, 0)
	seen := make(map[string]bool)

	for _, subreddit := range subreddits {
		name := matchers.NormalizeSubreddit(subreddit)
		if name == "" {
			continue
		}
		for _, keyword := range keywords {
			results, err := f.source.Search(ctx, name, keyword, limit)
			if err != nil {
				return nil, err
			}

			for _, raw := range results {
				if seen[raw.ID] {
					continue
				}
				if !matchers.MentionsKeyword(raw.Title+" "+raw.Selftext, keyword) {
					continue
				}
				seen[raw.ID] = true
				mentions = append(mentions, f.toPost(raw, name, []string{strings.ToLower(keyword)}))
			}
		}
	}

	f.logger.Debug("fetched mentions", "subreddits", len(subreddits), "keywords", len(keywords), "mentions", len(mentions))
	return mentions, nil
}

// FetchPosts looks posts up by id, keeping the order Reddit returns them in.
func (f *MentionFetcher) FetchPosts(ctx context.Context, ids []string) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	results, err := f.source.GetPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(results))
	for _, raw := range results {
		posts = append(posts, f.toPost(raw, raw.Subreddit, []string{}))
	}
	return posts, nil
}

func (f *MentionFetcher) toPost(raw models.RedditPost, subreddit string, keywords []string) models.Post {
	author := raw.Author
	if author == "" || author == "[deleted]" {
		author = anonymousAuthor
	}

	created := time.Unix(int64(raw.CreatedUTC), 0).UTC()

	return models.Post{
		ID:        raw.ID,
		Subreddit: matchers.SubredditLabel(subreddit),
		Title:     raw.Title,
		Author:    author,
		URL:       "https://reddit.com" + raw.Permalink,
		Upvotes:   max(raw.Score, 0),
		Comments:  max(raw.NumComments, 0),
		Sentiment: enums.SentimentNeutral,
		Status:    enums.PostStatusNeutral,
		Keywords:  keywords,
		CreatedAt: created,
		TimeAgo:   humanize.RelTime(created, f.now(), "ago", "from now"),
		Language:  f.language.Detect(raw.Title + " " + raw.Selftext),
		Body:      raw.Selftext,
	}
}
