// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "redditsentiment"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route pattern and status code.",
	}, []string{"method", "pattern", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "pattern"})

	RedditRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reddit_requests_total",
		Help:      "Requests sent to the Reddit API, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	RedditDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reddit_request_duration_seconds",
		Help:      "Reddit API latency by endpoint.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	ConfigCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "config_cache_lookups_total",
		Help:      "Monitor config cache lookups, by key and hit or miss.",
	}, []string{"key", "result"})

	DashboardDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_degraded_total",
		Help:      "Dashboard responses served empty because aggregation failed.",
	})

	DashboardPosts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dashboard_posts",
		Help:      "Posts in the last successful dashboard aggregate.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTP(method, pattern string, code int, elapsed time.Duration) {
	if pattern == "" {
		pattern = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, pattern, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(method, pattern).Observe(elapsed.Seconds())
}

func ObserveReddit(endpoint string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RedditRequests.WithLabelValues(endpoint, outcome).Inc()
	RedditDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
