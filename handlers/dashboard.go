package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kova98/redditsentiment.api/metrics"
	"github.com/kova98/redditsentiment.api/models"
)

type Aggregator interface {
	Dashboard(ctx context.Context) (models.DashboardResponse, error)
	RecentMentions(ctx context.Context) (models.RecentMentionsResponse, error)
}

type DashboardHandler struct {
	logger     *slog.Logger
	aggregator Aggregator
}

func NewDashboardHandler(logger *slog.Logger, aggregator Aggregator) *DashboardHandler {
	return &DashboardHandler{logger, aggregator}
}

// GetDashboard never fails: on error it serves an empty dashboard carrying the message.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) Result {
	res, err := h.aggregator.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard aggregation failed", "error", err)
		metrics.DashboardDegraded.Inc()
		return Ok(models.EmptyDashboard(err.Error()))
	}

	return Ok(res)
}

func (h *DashboardHandler) GetRecentMentions(w http.ResponseWriter, r *http.Request) Result {
	res, err := h.aggregator.RecentMentions(r.Context())
	if err != nil {
		return InternalError(err, "get recent mentions: ")
	}

	return Ok(res)
}
