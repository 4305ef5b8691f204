// Package httptransport assembles the public HTTP surface: the middleware
// chain, health and metrics endpoints, and the versioned API.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"backoffice/internal/platform/metrics"
	"backoffice/internal/platform/middleware"
)

// Registrar mounts a domain's routes.
type Registrar interface {
	Register(r chi.Router)
}

// StreamRegistrar mounts long-lived routes that must not be cut by the
// request timeout.
type StreamRegistrar interface {
	RegisterStream(r chi.Router)
}

type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Validator guards /api/v1. Nil disables authentication.
	Validator      middleware.JWTValidator
	RateLimiter    *middleware.RateLimiter
	RequestTimeout time.Duration
	Health         map[string]HealthChecker
}

// NewRouter builds the handler tree. Streams are mounted behind auth but
// outside the timeout and content-type middleware.
func NewRouter(cfg RouterConfig, auth *AuthHandler, streams []StreamRegistrar, domains ...Registrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Get("/health", healthHandler(cfg.Health))
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware)
		}

		if auth != nil {
			r.Group(func(r chi.Router) {
				r.Use(middleware.ContentTypeJSON)
				r.Use(middleware.Timeout(cfg.RequestTimeout))
				auth.Register(r)
			})
		}

		r.Group(func(r chi.Router) {
			if cfg.Validator != nil {
				r.Use(middleware.RequireAuth(cfg.Validator, logger))
			} else {
				logger.Warn("authentication disabled for /api/v1")
			}

			for _, s := range streams {
				s.RegisterStream(r)
			}

			r.Group(func(r chi.Router) {
				r.Use(middleware.ContentTypeJSON)
				r.Use(middleware.Timeout(cfg.RequestTimeout))
				if auth != nil {
					auth.RegisterProtected(r)
				}
				for _, d := range domains {
					d.Register(r)
				}
			})
		})
	})

	return r
}
