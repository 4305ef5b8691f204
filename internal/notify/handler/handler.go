// Package handler serves the notification queue over HTTP, including a
// server-sent event stream of queue changes.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/notify"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/requestcontext"
)

const heartbeatInterval = 15 * time.Second

// Channel is the part of *notify.Channel the handler reads.
type Channel interface {
	List() []notify.Notification
	Dismiss(id string)
	Subscribe(ctx context.Context) <-chan notify.Event
}

type Handler struct {
	channel Channel
	logger  *slog.Logger
}

func New(channel Channel, logger *slog.Logger) *Handler {
	return &Handler{channel: channel, logger: logger}
}

// Register mounts the snapshot and dismiss routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Delete("/notifications/{id}", h.handleDismiss)
}

// RegisterStream mounts the SSE route. It is kept apart so it can sit outside
// the request timeout.
func (h *Handler) RegisterStream(r chi.Router) {
	r.Get("/notifications/stream", h.handleStream)
}

type listResponse struct {
	Notifications []notify.Notification `json:"notifications"`
}

// handleList returns the queue, optionally narrowed to one kind with ?kind=.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list := h.channel.List()
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind := notify.Kind(raw)
		if !kind.IsValid() {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown notification kind %q", raw))
			return
		}
		list = slices.DeleteFunc(list, func(n notify.Notification) bool { return n.Kind != kind })
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Notifications: list})
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	h.channel.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// subscribe before the headers go out so a client that has seen the
	// response never misses an event
	events := h.channel.Subscribe(ctx)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	h.logger.InfoContext(ctx, "notification stream opened",
		"request_id", requestcontext.RequestID(ctx))

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.ErrorContext(ctx, "failed to encode notification event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
