package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/kova98/redditsentiment.api/metrics"
)

const (
	subredditsKey = "subreddits"
	keywordsKey   = "keywords"
	loadTimeout   = 10 * time.Second
)

type NameLister interface {
	List(ctx context.Context) ([]string, error)
}

// ConfigCache holds the monitored subreddits and keywords between config changes.
// Concurrent misses for the same key share one store read. Invalidate clears both
// lists; a read that started before the clear does not repopulate the cache.
type ConfigCache struct {
	subreddits      NameLister
	keywords        NameLister
	defaultKeywords []string

	mu         sync.RWMutex
	entries    map[string][]string
	generation uint64
	group      singleflight.Group
}

func NewConfigCache(subreddits, keywords NameLister, defaultKeywords []string) *ConfigCache {
	return &ConfigCache{
		subreddits:      subreddits,
		keywords:        keywords,
		defaultKeywords: slices.Clone(defaultKeywords),
		entries:         make(map[string][]string),
	}
}

func (c *ConfigCache) Subreddits(ctx context.Context) ([]string, error) {
	return c.get(ctx, subredditsKey, c.subreddits.List)
}

// Keywords falls back to the default keywords when none are stored.
func (c *ConfigCache) Keywords(ctx context.Context) ([]string, error) {
	return c.get(ctx, keywordsKey, func(ctx context.Context) ([]string, error) {
		keywords, err := c.keywords.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(keywords) == 0 {
			return slices.Clone(c.defaultKeywords), nil
		}
		return keywords, nil
	})
}

func (c *ConfigCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]string)
	c.generation++
}

func (c *ConfigCache) get(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	generation := c.generation
	c.mu.RUnlock()
	if ok {
		metrics.ConfigCacheLookups.WithLabelValues(key, "hit").Inc()
		return slices.Clone(cached), nil
	}
	metrics.ConfigCacheLookups.WithLabelValues(key, "miss").Inc()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// The load outlives the caller that started it; other callers may be waiting.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		values, err := load(loadCtx)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", key)
		}
		if values == nil {
			values = []string{}
		}

		c.mu.Lock()
		// Invalidated mid-load: callers still get this result, but it is not cached.
		if c.generation == generation {
			c.entries[key] = values
		}
		c.mu.Unlock()

		return values, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]string)), nil
	}
}
