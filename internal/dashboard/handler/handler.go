package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/dashboard/models"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

type Service interface {
	Stats(ctx context.Context) (models.Stats, time.Time, error)
	FormattedStats(ctx context.Context) (models.FormattedStats, error)
	Refresh(ctx context.Context) (models.Stats, error)
	Activities(ctx context.Context) ([]models.Activity, error)
	ActivityByType(ctx context.Context) (map[models.ActivityType]int, error)
	AddActivity(ctx context.Context, in models.ActivityInput) (*models.Activity, error)
	Charts() models.Charts
}

type Handler struct {
	dashboard Service
	logger    *slog.Logger
}

func New(dashboard Service, logger *slog.Logger) *Handler {
	return &Handler{dashboard: dashboard, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.handleOverview)
		r.Post("/refresh", h.handleRefresh)
		r.Get("/activity", h.handleActivity)
		r.Post("/activity", h.handleAddActivity)
		r.Get("/charts", h.handleCharts)
	})
}

type overviewResponse struct {
	Stats       models.Stats          `json:"stats"`
	Formatted   models.FormattedStats `json:"formatted"`
	LastUpdated time.Time             `json:"last_updated"`
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, updated, err := h.dashboard.Stats(ctx)
	if err != nil {
		h.fail(w, r, "failed to load stats", err)
		return
	}
	formatted, err := h.dashboard.FormattedStats(ctx)
	if err != nil {
		h.fail(w, r, "failed to format stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overviewResponse{Stats: stats, Formatted: formatted, LastUpdated: updated})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Refresh(r.Context())
	if err != nil {
		h.fail(w, r, "failed to refresh dashboard", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

type activityResponse struct {
	Activities []models.Activity           `json:"activities"`
	ByType     map[models.ActivityType]int `json:"by_type"`
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activities, err := h.dashboard.Activities(ctx)
	if err != nil {
		h.fail(w, r, "failed to list activity", err)
		return
	}
	byType, err := h.dashboard.ActivityByType(ctx)
	if err != nil {
		h.fail(w, r, "failed to count activity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, activityResponse{Activities: activities, ByType: byType})
}

func (h *Handler) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var in models.ActivityInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.dashboard.AddActivity(r.Context(), in)
	if err != nil {
		h.fail(w, r, "failed to add activity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) handleCharts(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.dashboard.Charts())
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
