package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/users/models"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

// Service defines the user operations the handler exposes.
type Service interface {
	Create(ctx context.Context, in models.UserInput) (*models.User, error)
	Update(ctx context.Context, id string, in models.UserInput) (*models.User, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.User, bool)
	FilteredBy(ctx context.Context, f models.Filter) ([]models.User, error)
	CountByRole(ctx context.Context) (map[models.Role]int, error)
	Filter() models.Filter
	SetFilter(f models.Filter)
	Select(ctx context.Context, id string) error
	Selected(ctx context.Context) (*models.User, bool)
}

type Handler struct {
	users  Service
	logger *slog.Logger
}

func New(users Service, logger *slog.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/by-role", h.handleByRole)
		r.Get("/filter", h.handleGetFilter)
		r.Put("/filter", h.handleSetFilter)
		r.Get("/selected", h.handleSelected)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Post("/{id}/select", h.handleSelect)
	})
}

type listResponse struct {
	Users []models.User `json:"users"`
	Total int           `json:"total"`
}

// handleList filters with query parameters when any is given, otherwise
// with the stored view filter.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := h.users.Filter()
	if q.Has("search") || q.Has("status") || q.Has("role") {
		f = models.Filter{Search: q.Get("search"), Status: q.Get("status"), Role: q.Get("role")}
	}
	users, err := h.users.FilteredBy(r.Context(), f)
	if err != nil {
		h.fail(w, r, "failed to list users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Users: users, Total: len(users)})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := h.users.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "failed to create user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, ok := h.users.GetByID(r.Context(), id)
	if !ok {
		httputil.WriteError(w, dErrors.NotFound("user", id))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, "failed to update user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "failed to delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleByRole(w http.ResponseWriter, r *http.Request) {
	counts, err := h.users.CountByRole(r.Context())
	if err != nil {
		h.fail(w, r, "failed to count users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counts)
}

func (h *Handler) handleGetFilter(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.users.Filter())
}

func (h *Handler) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var f models.Filter
	if err := httputil.DecodeJSON(r, &f); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.users.SetFilter(f)
	httputil.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Select(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "failed to select user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSelected(w http.ResponseWriter, r *http.Request) {
	u, ok := h.users.Selected(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no user selected"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
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
