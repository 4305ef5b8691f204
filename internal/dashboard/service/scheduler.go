package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"backoffice/internal/dashboard/models"
	"backoffice/pkg/requestcontext"
)

// Refresher is the operation the scheduler triggers.
type Refresher interface {
	Refresh(ctx context.Context) (models.Stats, error)
}

// Scheduler refreshes the dashboard on a cron schedule. Overlapping runs are
// skipped.
type Scheduler struct {
	refresher Refresher
	schedule  cron.Schedule
	spec      string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewScheduler parses spec with the standard five-field parser, which also
// accepts descriptors such as "@every 5m".
func NewScheduler(refresher Refresher, spec string, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid dashboard refresh schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		refresher: refresher,
		schedule:  schedule,
		spec:      spec,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Run blocks until ctx is cancelled, then waits for a running refresh to
// finish.
func (s *Scheduler) Run(ctx context.Context) error {
	clog := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.tick(ctx) }))
	c.Start()
	s.logger.Info("dashboard scheduler started", "schedule", s.spec)

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("dashboard scheduler stopped")
	return nil
}

func (s *Scheduler) tick(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	ctx = requestcontext.WithRequestID(ctx, "cron-"+uuid.NewString())

	if _, err := s.refresher.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "scheduled dashboard refresh failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
