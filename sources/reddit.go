package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kova98/redditsentiment.api/metrics"
	"github.com/kova98/redditsentiment.api/models"
)

// ErrUnauthorized is returned when Reddit rejects the access token.
var ErrUnauthorized = errors.New("reddit: access token rejected")

const infoBatchSize = 100

type RedditClient struct {
	logger     *slog.Logger
	appClient  *http.Client
	userClient *http.Client
	baseURL    string
}

// NewRedditClient takes the app-only client for public reads and the plain client for
// calls made with a connected account's own token.
func NewRedditClient(logger *slog.Logger, appClient, userClient *http.Client, baseURL string) *RedditClient {
	return &RedditClient{
		logger:     logger,
		appClient:  appClient,
		userClient: userClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Search returns the newest posts in subreddit matching query, at most limit.
func (c *RedditClient) Search(ctx context.Context, subreddit, query string, limit int) ([]models.RedditPost, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("restrict_sr", "1")
	params.Set("sort", "new")
	params.Set("type", "link")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("raw_json", "1")
	endpoint := fmt.Sprintf("%s/r/%s/search?%s", c.baseURL, url.PathEscape(subreddit), params.Encode())

	var listing models.RedditListing
	if err := c.fetch(ctx, "search", c.appClient, endpoint, "", &listing); err != nil {
		return nil, fmt.Errorf("search r/%s for %q: %w", subreddit, query, err)
	}

	return listingPosts(listing), nil
}

// GetPosts looks posts up by id. Ids unknown to Reddit are silently absent.
func (c *RedditClient) GetPosts(ctx context.Context, ids []string) ([]models.RedditPost, error) {
	posts := make([]models.RedditPost, 0, len(ids))
	for start := 0; start < len(ids); start += infoBatchSize {
		end := min(start+infoBatchSize, len(ids))

		names := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			names = append(names, "t3_"+strings.TrimPrefix(id, "t3_"))
		}
		params := url.Values{}
		params.Set("id", strings.Join(names, ","))
		params.Set("raw_json", "1")
		endpoint := fmt.Sprintf("%s/api/info?%s", c.baseURL, params.Encode())

		var listing models.RedditListing
		if err := c.fetch(ctx, "info", c.appClient, endpoint, "", &listing); err != nil {
			return nil, fmt.Errorf("get posts by id: %w", err)
		}
		posts = append(posts, listingPosts(listing)...)
	}

	return posts, nil
}

// Identity returns the account behind token.
func (c *RedditClient) Identity(ctx context.Context, token string) (models.RedditIdentity, error) {
	var identity models.RedditIdentity
	if err := c.fetch(ctx, "me", c.userClient, c.baseURL+"/api/v1/me", token, &identity); err != nil {
		return models.RedditIdentity{}, fmt.Errorf("get identity: %w", err)
	}
	return identity, nil
}

// CountSubmissions counts the entries on the first page of the user's submissions.
// Accounts with more than one page are undercounted.
func (c *RedditClient) CountSubmissions(ctx context.Context, token, username string) (int, error) {
	endpoint := fmt.Sprintf("%s/user/%s/submitted?limit=100&raw_json=1", c.baseURL, url.PathEscape(username))

	var listing models.RedditListing
	if err := c.fetch(ctx, "submitted", c.userClient, endpoint, token, &listing); err != nil {
		return 0, fmt.Errorf("count submissions for %s: %w", username, err)
	}
	return len(listing.Data.Children), nil
}

func (c *RedditClient) fetch(ctx context.Context, name string, client *http.Client, endpoint, token string, dest any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveReddit(name, err, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return truncateError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return truncateError(fmt.Errorf("reddit returned status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}

	c.logger.Debug("reddit request", "endpoint", name, "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

func listingPosts(listing models.RedditListing) []models.RedditPost {
	posts := make([]models.RedditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "" && child.Kind != "t3" {
			continue
		}
		if child.Data.ID == "" {
			continue
		}
		posts = append(posts, child.Data)
	}
	return posts
}

func truncateError(err error) error {
	msg := err.Error()
	if len(msg) > 300 {
		return fmt.Errorf("%s...", msg[:300])
	}
	return err
}
