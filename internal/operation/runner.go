package operation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"backoffice/internal/platform/metrics"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/requestcontext"
)

const tracerName = "backoffice/internal/operation"

// Notifier is the producer side of the notification channel.
type Notifier interface {
	Pending(message string) string
	Dismiss(id string)
	Success(message string, lifetime ...time.Duration) string
	Error(message string, lifetime ...time.Duration) string
}

// Spec describes one bracketed operation.
type Spec struct {
	Store   string
	Name    string
	Latency time.Duration

	Pending string
	Success string
	Failure string

	// ExposeErrors shows the message of not-found, unsupported, too-large and
	// bad-request failures instead of Failure.
	ExposeErrors bool
}

// Runner owns the bracket. It is shared by every store.
type Runner struct {
	notifier Notifier
	executor Executor
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Runner)

func WithExecutor(e Executor) Option {
	return func(r *Runner) {
		r.executor = e
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// NewRunner defaults to the simulated executor and the global tracer.
func NewRunner(notifier Notifier, opts ...Option) *Runner {
	r := &Runner{
		notifier: notifier,
		executor: Simulated(),
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run shows spec.Pending, executes fn, dismisses the pending notification and
// then reports the outcome once. fn's error is returned unchanged.
func (r *Runner) Run(ctx context.Context, spec Spec, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, spec.Store+"."+spec.Name, trace.WithAttributes(
		attribute.String("store", spec.Store),
		attribute.String("operation", spec.Name),
	))
	defer span.End()

	pendingID := r.notifier.Pending(spec.Pending)
	err := r.executor.Execute(ctx, spec.Latency, fn)
	r.notifier.Dismiss(pendingID)

	r.metrics.ObserveOperation(spec.Store, spec.Name, start, err)

	if err != nil {
		r.notifier.Error(r.failureMessage(spec, err))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))

		level := slog.LevelError
		if dErrors.CodeOf(err) != dErrors.CodeInternal {
			level = slog.LevelWarn
		}
		r.logger.Log(ctx, level, "operation failed",
			"store", spec.Store,
			"operation", spec.Name,
			"code", string(dErrors.CodeOf(err)),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return err
	}

	r.notifier.Success(spec.Success)
	r.logger.DebugContext(ctx, "operation succeeded",
		"store", spec.Store,
		"operation", spec.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// Reject reports a failure that happens before any work starts, so no
// pending notification is shown.
func (r *Runner) Reject(ctx context.Context, spec Spec, err error) error {
	r.notifier.Error(r.failureMessage(spec, err))
	r.metrics.ObserveOperation(spec.Store, spec.Name, time.Now(), err)
	r.logger.WarnContext(ctx, "operation rejected",
		"store", spec.Store,
		"operation", spec.Name,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return err
}

func (r *Runner) failureMessage(spec Spec, err error) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation:
		return dErrors.FirstMessage(err, spec.Failure)
	case dErrors.CodeNotFound, dErrors.CodeUnsupported, dErrors.CodeTooLarge, dErrors.CodeBadRequest:
		if spec.ExposeErrors {
			return dErrors.FirstMessage(err, spec.Failure)
		}
	}
	return spec.Failure
}

// Do is Run for operations that produce a value.
func Do[T any](ctx context.Context, r *Runner, spec Spec, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := r.Run(ctx, spec, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
