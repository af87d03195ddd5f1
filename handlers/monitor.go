package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kova98/redditsentiment.api/matchers"
	"github.com/kova98/redditsentiment.api/models"
)

type MonitorStore interface {
	Add(ctx context.Context, name string) (bool, error)
	Remove(ctx context.Context, name string) error
}

type ConfigCache interface {
	Subreddits(ctx context.Context) ([]string, error)
	Keywords(ctx context.Context) ([]string, error)
	Invalidate()
}

// MonitorHandler edits the monitored subreddits and keywords. Reads go through the
// cache; every write clears it.
type MonitorHandler struct {
	subreddits MonitorStore
	keywords   MonitorStore
	cache      ConfigCache
}

func NewMonitorHandler(subreddits, keywords MonitorStore, cache ConfigCache) *MonitorHandler {
	return &MonitorHandler{subreddits, keywords, cache}
}

func (h *MonitorHandler) GetSubreddits(w http.ResponseWriter, r *http.Request) Result {
	subreddits, err := h.cache.Subreddits(r.Context())
	if err != nil {
		return InternalError(err, "get monitored subreddits: ")
	}

	return Ok(subreddits)
}

func (h *MonitorHandler) AddSubreddit(w http.ResponseWriter, r *http.Request) Result {
	var req models.SubredditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	name := matchers.NormalizeSubreddit(req.Subreddit)
	if name == "" {
		return Failure("Missing subreddit")
	}

	_, err := h.subreddits.Add(r.Context(), name)
	h.cache.Invalidate()
	if err != nil {
		return InternalError(err, "add monitored subreddit: ")
	}

	return Success()
}

func (h *MonitorHandler) RemoveSubreddit(w http.ResponseWriter, r *http.Request) Result {
	name := matchers.NormalizeSubreddit(r.PathValue("name"))
	if name == "" {
		return Failure("Missing subreddit")
	}

	err := h.subreddits.Remove(r.Context(), name)
	h.cache.Invalidate()
	if err != nil {
		return InternalError(err, "remove monitored subreddit: ")
	}

	return Success()
}

func (h *MonitorHandler) GetKeywords(w http.ResponseWriter, r *http.Request) Result {
	keywords, err := h.cache.Keywords(r.Context())
	if err != nil {
		return InternalError(err, "get keywords: ")
	}

	return Ok(keywords)
}

func (h *MonitorHandler) AddKeyword(w http.ResponseWriter, r *http.Request) Result {
	var req models.KeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return Failure("Missing keyword")
	}

	_, err := h.keywords.Add(r.Context(), keyword)
	h.cache.Invalidate()
	if err != nil {
		return InternalError(err, "add keyword: ")
	}

	return Success()
}

func (h *MonitorHandler) RemoveKeyword(w http.ResponseWriter, r *http.Request) Result {
	keyword := strings.TrimSpace(r.PathValue("name"))
	if keyword == "" {
		return Failure("Missing keyword")
	}

	err := h.keywords.Remove(r.Context(), keyword)
	h.cache.Invalidate()
	if err != nil {
		return InternalError(err, "remove keyword: ")
	}

	return Success()
}

func (h *MonitorHandler) ClearCache(w http.ResponseWriter, r *http.Request) Result {
	h.cache.Invalidate()
	return Ok(models.MessageResponse{Message: "Cache cleared"})
}
