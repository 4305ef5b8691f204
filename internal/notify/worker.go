package notify

import (
	"context"
	"log/slog"
	"time"

	"backoffice/internal/platform/metrics"
	"backoffice/pkg/platform/circuit"
)

// Sink receives queue events outside the process, e.g. a Redis list or a
// Kafka topic. Delivery failures never reach the producer.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

// Worker drains the channel outbox into sinks. Each sink sits behind its own
// circuit breaker; events for a sink with an open circuit are dropped.
type Worker struct {
	inbox   <-chan Event
	sinks   []guardedSink
	logger  *slog.Logger
	metrics *metrics.Metrics

	failureThreshold int
	cooldown         time.Duration
}

type guardedSink struct {
	Sink
	breaker *circuit.Breaker
}

type WorkerOption func(*Worker)

func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithWorkerMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithSinkBreaker tunes the per-sink circuit breakers.
func WithSinkBreaker(failureThreshold int, cooldown time.Duration) WorkerOption {
	return func(w *Worker) {
		w.failureThreshold = failureThreshold
		w.cooldown = cooldown
	}
}

func NewWorker(inbox <-chan Event, sinks []Sink, opts ...WorkerOption) *Worker {
	w := &Worker{inbox: inbox, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	for _, s := range sinks {
		w.sinks = append(w.sinks, guardedSink{
			Sink: s,
			breaker: circuit.New(s.Name(),
				circuit.WithFailureThreshold(w.failureThreshold),
				circuit.WithCooldown(w.cooldown)),
		})
	}
	return w
}

// Run delivers events until ctx is done or the inbox is closed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.deliver(ctx, ev)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, ev Event) {
	for _, sink := range w.sinks {
		name := sink.breaker.Name()
		if !sink.breaker.Allow() {
			w.metrics.IncrementSinkDropped(name)
			continue
		}
		if err := sink.Deliver(ctx, ev); err != nil {
			w.metrics.IncrementSinkFailure(name)
			w.logger.ErrorContext(ctx, "notification sink delivery failed",
				"sink", name,
				"notification_id", ev.Notification.ID,
				"error", err)
			if sink.breaker.RecordFailure() {
				w.metrics.SetSinkCircuitOpen(name, true)
				w.logger.WarnContext(ctx, "notification sink circuit opened", "sink", name)
			}
			continue
		}
		if sink.breaker.RecordSuccess() {
			w.metrics.SetSinkCircuitOpen(name, false)
			w.logger.InfoContext(ctx, "notification sink circuit closed", "sink", name)
		}
	}
}
