package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"backoffice/internal/dashboard/models"
	"backoffice/internal/operation"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/validation"
	"backoffice/pkg/requestcontext"
)

const storeName = "dashboard"

type Store interface {
	Stats(ctx context.Context) (models.Stats, time.Time, error)
	UpdateStats(ctx context.Context, at time.Time, fn func(models.Stats) models.Stats) (models.Stats, error)
	PrependActivity(ctx context.Context, a models.Activity) error
	Activities(ctx context.Context) ([]models.Activity, error)
}

// Service owns the dashboard counters, activity log and charts.
type Service struct {
	store  Store
	runner *operation.Runner
	schema *validation.Schema[models.ActivityInput]
	logger *slog.Logger
	newID  func() string
	charts models.Charts

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRand makes refresh deltas reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(store Store, runner *operation.Runner, opts ...Option) *Service {
	s := &Service{
		store:  store,
		runner: runner,
		schema: models.ActivitySchema(),
		logger: slog.Default(),
		newID:  uuid.NewString,
		charts: models.SeedCharts(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Refresh simulates polling the backend: counters drift by small random
// amounts and LastUpdated moves to now.
func (s *Service) Refresh(ctx context.Context) (models.Stats, error) {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "refresh",
		Latency: operation.LatencyRefresh,
		Pending: "Refreshing dashboard...",
		Success: "Dashboard refreshed successfully",
		Failure: "Failed to refresh dashboard",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (models.Stats, error) {
		stats, err := s.store.UpdateStats(ctx, requestcontext.Now(ctx), s.drift)
		if err != nil {
			return models.Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update stats")
		}
		s.logger.DebugContext(ctx, "dashboard refreshed",
			"total_users", stats.TotalUsers,
			"request_id", requestcontext.RequestID(ctx),
		)
		return stats, nil
	})
}

func (s *Service) drift(st models.Stats) models.Stats {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return models.Stats{
		TotalUsers:     st.TotalUsers + s.rng.IntN(10),
		ActiveUsers:    st.ActiveUsers + s.rng.IntN(5),
		NewUsers:       30 + s.rng.IntN(20),
		TotalRevenue:   st.TotalRevenue + s.rng.IntN(5000),
		MonthlyGrowth:  st.MonthlyGrowth + (s.rng.Float64()-0.5)*2,
		ConversionRate: st.ConversionRate + (s.rng.Float64()-0.5)*0.5,
	}
}

// AddActivity validates and prepends an entry to the log. It is a local
// mutation and raises no notification.
func (s *Service) AddActivity(ctx context.Context, in models.ActivityInput) (*models.Activity, error) {
	valid, err := s.schema.Validate(in)
	if err != nil {
		return nil, err
	}
	a := models.Activity{
		ID:        s.newID(),
		Type:      *valid.Type,
		Message:   *valid.Message,
		Timestamp: requestcontext.Now(ctx),
	}
	if valid.User != nil {
		a.User = *valid.User
	}
	if valid.Timestamp != nil {
		a.Timestamp = *valid.Timestamp
	}
	if err := s.store.PrependActivity(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record activity")
	}
	return &a, nil
}

// Record is AddActivity for callers that already hold trusted values.
func (s *Service) Record(ctx context.Context, t models.ActivityType, msg, user string) {
	in := models.ActivityInput{Type: &t, Message: &msg}
	if user != "" {
		in.User = &user
	}
	if _, err := s.AddActivity(ctx, in); err != nil {
		s.logger.WarnContext(ctx, "failed to record activity",
			"type", string(t),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) Activities(ctx context.Context) ([]models.Activity, error) {
	out, err := s.store.Activities(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activity")
	}
	return out, nil
}

// ActivityByType counts the log entries per type.
func (s *Service) ActivityByType(ctx context.Context) (map[models.ActivityType]int, error) {
	activities, err := s.Activities(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[models.ActivityType]int)
	for _, a := range activities {
		counts[a.Type]++
	}
	return counts, nil
}

func (s *Service) Stats(ctx context.Context) (models.Stats, time.Time, error) {
	stats, at, err := s.store.Stats(ctx)
	if err != nil {
		return models.Stats{}, time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stats")
	}
	return stats, at, nil
}

func (s *Service) FormattedStats(ctx context.Context) (models.FormattedStats, error) {
	stats, _, err := s.Stats(ctx)
	if err != nil {
		return models.FormattedStats{}, err
	}
	return Format(stats), nil
}

// Format renders counts with thousands separators, revenue in dollars and
// rates as percentages.
func Format(st models.Stats) models.FormattedStats {
	p := message.NewPrinter(language.English)
	return models.FormattedStats{
		TotalUsers:     p.Sprintf("%d", st.TotalUsers),
		ActiveUsers:    p.Sprintf("%d", st.ActiveUsers),
		NewUsers:       p.Sprintf("%d", st.NewUsers),
		TotalRevenue:   "$" + p.Sprintf("%d", st.TotalRevenue),
		MonthlyGrowth:  strconv.FormatFloat(st.MonthlyGrowth, 'f', -1, 64) + "%",
		ConversionRate: strconv.FormatFloat(st.ConversionRate, 'f', -1, 64) + "%",
	}
}

// Charts returns the chart datasets.
func (s *Service) Charts() models.Charts {
	return s.charts
}
