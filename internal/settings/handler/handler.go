package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/settings/models"
	"backoffice/internal/settings/service"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

// Service defines the settings operations the handler exposes.
type Service interface {
	Profile(ctx context.Context) (models.Profile, error)
	Preferences(ctx context.Context) (models.Preferences, error)
	Summarize(ctx context.Context) (service.Summary, error)
	UpdateProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, error)
	UpdatePreferences(ctx context.Context, in models.PreferencesInput) (*models.Preferences, error)
	ChangePassword(ctx context.Context, in models.PasswordChange) error
	UploadAvatar(ctx context.Context, upload models.AvatarUpload) (string, error)
	ExportData(ctx context.Context) (*models.DataExport, error)
	DeleteAccount(ctx context.Context, confirmation string) error
	SetSystemPrefersDark(ctx context.Context, dark bool)
	IsDarkMode() bool
}

type Handler struct {
	settings Service
	logger   *slog.Logger
}

func New(settings Service, logger *slog.Logger) *Handler {
	return &Handler{settings: settings, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Patch("/profile", h.handleUpdateProfile)
		r.Patch("/preferences", h.handleUpdatePreferences)
		r.Post("/password", h.handleChangePassword)
		r.Post("/avatar", h.handleUploadAvatar)
		r.Get("/export", h.handleExport)
		r.Post("/account/delete", h.handleDeleteAccount)
		r.Put("/system-theme", h.handleSystemTheme)
	})
}

type settingsResponse struct {
	Profile     models.Profile     `json:"profile"`
	Preferences models.Preferences `json:"preferences"`
	service.Summary
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.settings.Profile(ctx)
	if err != nil {
		h.fail(w, r, "failed to load profile", err)
		return
	}
	prefs, err := h.settings.Preferences(ctx)
	if err != nil {
		h.fail(w, r, "failed to load preferences", err)
		return
	}
	summary, err := h.settings.Summarize(ctx)
	if err != nil {
		h.fail(w, r, "failed to summarize settings", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settingsResponse{Profile: profile, Preferences: prefs, Summary: summary})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.settings.UpdateProfile(r.Context(), in)
	if err != nil {
		h.fail(w, r, "failed to update profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var in models.PreferencesInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.settings.UpdatePreferences(r.Context(), in)
	if err != nil {
		h.fail(w, r, "failed to update preferences", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in models.PasswordChange
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.settings.ChangePassword(r.Context(), in); err != nil {
		h.fail(w, r, "failed to change password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type avatarResponse struct {
	Avatar string `json:"avatar"`
}

func (h *Handler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	var in models.AvatarUpload
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	url, err := h.settings.UploadAvatar(r.Context(), in)
	if err != nil {
		h.fail(w, r, "failed to upload avatar", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, avatarResponse{Avatar: url})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	out, err := h.settings.ExportData(r.Context())
	if err != nil {
		h.fail(w, r, "failed to export data", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="account-data.json"`)
	httputil.WriteJSON(w, http.StatusOK, out)
}

type deleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var in deleteAccountRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.settings.DeleteAccount(r.Context(), in.Confirmation); err != nil {
		h.fail(w, r, "failed to delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type systemThemeRequest struct {
	PrefersDark *bool `json:"prefers_dark"`
}

type systemThemeResponse struct {
	DarkMode bool `json:"dark_mode"`
}

// handleSystemTheme receives the host's color-scheme preference, which
// decides dark mode while the theme is "system".
func (h *Handler) handleSystemTheme(w http.ResponseWriter, r *http.Request) {
	var in systemThemeRequest
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if in.PrefersDark == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "prefers_dark is required"))
		return
	}
	h.settings.SetSystemPrefersDark(r.Context(), *in.PrefersDark)
	httputil.WriteJSON(w, http.StatusOK, systemThemeResponse{DarkMode: h.settings.IsDarkMode()})
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
