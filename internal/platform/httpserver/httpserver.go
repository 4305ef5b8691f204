package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"
)

type Option func(*http.Server)

// WithBaseContext derives every request context from ctx, so long-lived
// notification streams end when ctx is cancelled.
func WithBaseContext(ctx context.Context) Option {
	return func(s *http.Server) {
		s.BaseContext = func(net.Listener) context.Context { return ctx }
	}
}

// WithReadTimeout bounds how long reading a request, body included, may take.
func WithReadTimeout(d time.Duration) Option {
	return func(s *http.Server) {
		if d > 0 {
			s.ReadTimeout = d
		}
	}
}

// New builds the dashboard API server. WriteTimeout stays unset so the
// notification stream can hold its connection open; per-request deadlines
// come from the Timeout middleware instead.
func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
