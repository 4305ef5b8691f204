package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/reports/models"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

type Service interface {
	Generate(ctx context.Context, in models.FiltersInput) (*models.Report, error)
	Export(ctx context.Context, id string, format models.ExportFormat) (*models.Export, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Report, error)
	Filtered(ctx context.Context) ([]models.Report, error)
	GetByID(ctx context.Context, id string) (*models.Report, bool)
	SetCurrent(ctx context.Context, id string)
	Current(ctx context.Context) (*models.Report, bool)
	Summary(ctx context.Context) *models.Summary
	Filters() models.Filters
	SetFilters(in models.FiltersInput) (models.Filters, error)
}

type Handler struct {
	reports Service
	logger  *slog.Logger
}

func New(reports Service, logger *slog.Logger) *Handler {
	return &Handler{reports: reports, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleGenerate)
		r.Get("/filters", h.handleGetFilters)
		r.Put("/filters", h.handleSetFilters)
		r.Get("/current", h.handleCurrent)
		r.Get("/current/summary", h.handleSummary)
		r.Get("/{id}", h.handleGet)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/current", h.handleSetCurrent)
		r.Get("/{id}/export", h.handleExport)
	})
}

type listResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int             `json:"total"`
}

// handleList returns every report, or only those matching the current
// filters with ?filtered=true.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list := h.reports.List
	if filtered, _ := strconv.ParseBool(r.URL.Query().Get("filtered")); filtered {
		list = h.reports.Filtered
	}
	reports, err := list(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list reports", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Reports: reports, Total: len(reports)})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var in models.FiltersInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	report, err := h.reports.Generate(r.Context(), in)
	if err != nil {
		h.fail(w, r, "failed to generate report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, ok := h.reports.GetByID(r.Context(), id)
	if !ok {
		httputil.WriteError(w, dErrors.NotFound("report", id))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.reports.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "failed to delete report", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format := models.ExportFormat(r.URL.Query().Get("format"))
	out, err := h.reports.Export(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		h.fail(w, r, "failed to export report", err)
		return
	}
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Body); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write export", "error", err)
	}
}

func (h *Handler) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	h.reports.SetCurrent(r.Context(), chi.URLParam(r, "id"))
	h.handleCurrent(w, r)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reports.Current(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no current report"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.reports.Summary(r.Context())
	if summary == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no summary available"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.reports.Filters())
}

func (h *Handler) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var in models.FiltersInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	f, err := h.reports.SetFilters(in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, f)
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
