package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	dashboardModels "backoffice/internal/dashboard/models"
	"backoffice/internal/platform/middleware"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/platform/validation"
	"backoffice/pkg/requestcontext"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateAccessToken(subject, name string, ttl time.Duration) (string, time.Time, error)
}

// LoginRecorder stamps the last login of a known user.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, email string, at time.Time)
}

// ActivityRecorder appends to the dashboard activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, t dashboardModels.ActivityType, msg, user string)
}

// AuthHandler issues development session tokens. There is no credential
// check; any well-formed email signs in.
type AuthHandler struct {
	tokens   TokenIssuer
	ttl      time.Duration
	logins   LoginRecorder
	activity ActivityRecorder
	schema   *validation.Schema[TokenRequest]
	logger   *slog.Logger
}

func NewAuthHandler(tokens TokenIssuer, ttl time.Duration, logins LoginRecorder, activity ActivityRecorder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:   tokens,
		ttl:      ttl,
		logins:   logins,
		activity: activity,
		schema:   tokenRequestSchema(),
		logger:   logger,
	}
}

type TokenRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type whoamiResponse struct {
	Subject string `json:"subject"`
}

func tokenRequestSchema() *validation.Schema[TokenRequest] {
	return validation.NewSchema(
		validation.StringField("email", func(in TokenRequest) *string { return in.Email },
			validation.Email("Invalid email address")),
		validation.StringField("name", func(in TokenRequest) *string { return in.Name }).Optional(),
	).Normalize(func(in *TokenRequest) {
		if in.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*in.Email))
			in.Email = &email
		}
	})
}

// Register mounts the unauthenticated token endpoint.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/token", h.handleToken)
}

// RegisterProtected mounts endpoints that need a session.
func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.Get("/auth/me", h.handleWhoami)
}

func (h *AuthHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req TokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	valid, err := h.schema.Validate(req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	email := *valid.Email
	name := email
	if valid.Name != nil && strings.TrimSpace(*valid.Name) != "" {
		name = strings.TrimSpace(*valid.Name)
	}

	token, expiresAt, err := h.tokens.GenerateAccessToken(email, name, h.ttl)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token"))
		return
	}

	if h.logins != nil {
		h.logins.RecordLogin(ctx, email, requestcontext.Now(ctx))
	}
	if h.activity != nil {
		h.activity.Record(ctx, dashboardModels.ActivityLogin, "User logged in", email)
	}
	h.logger.InfoContext(ctx, "token issued",
		"subject", email,
		"request_id", requestcontext.RequestID(ctx),
	)

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

func (h *AuthHandler) handleWhoami(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r)
	if subject == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no session"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, whoamiResponse{Subject: subject})
}
