package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/operation"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/reports/models"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/sentinel"
	"backoffice/pkg/platform/validation"
	"backoffice/pkg/requestcontext"
)

const (
	storeName         = "reports"
	deleteLatency     = 800 * time.Millisecond
	defaultWindowDays = 30
)

type Store interface {
	Prepend(ctx context.Context, r models.Report) error
	List(ctx context.Context) ([]models.Report, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
	Delete(ctx context.Context, id string) error
}

// Service generates, exports and tracks reports plus the current selection
// and filters.
type Service struct {
	store     Store
	runner    *operation.Runner
	generator *Generator
	schema    *validation.Schema[models.FiltersInput]
	logger    *slog.Logger
	metrics   *metrics.Metrics
	newID     func() string
	now       func() time.Time

	viewMu  sync.RWMutex
	current string
	filters models.Filters
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRand seeds series generation, making reports reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.generator = NewGenerator(rng)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, runner *operation.Runner, opts ...Option) *Service {
	s := &Service{
		store:  store,
		runner: runner,
		schema: models.FiltersSchema(),
		logger: slog.Default(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = NewGenerator(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}
	now := s.now()
	s.filters = models.Filters{
		StartDate:  now.AddDate(0, 0, -defaultWindowDays),
		EndDate:    now,
		ReportType: models.TypeUsers,
		GroupBy:    models.GroupByDay,
	}
	return s
}

// Generate builds a report, stores it as the most recent one and makes it
// current. The filters it used become the current filters.
func (s *Service) Generate(ctx context.Context, in models.FiltersInput) (*models.Report, error) {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "generate",
		Latency: operation.LatencyGenerate,
		Pending: "Generating report...",
		Success: "Report generated successfully",
		Failure: "Failed to generate report",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (*models.Report, error) {
		valid, err := s.schema.Validate(in)
		if err != nil {
			return nil, err
		}
		f := valid.Filters()
		series, composite, err := s.generator.Build(ctx, f)
		if err != nil {
			return nil, err
		}
		r := models.Report{
			ID:          s.newID(),
			Type:        f.ReportType,
			Title:       Title(f.ReportType),
			Series:      series,
			Composite:   composite,
			GeneratedAt: s.now(),
			Filters:     f,
		}
		if err := s.store.Prepend(ctx, r); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save report")
		}

		s.viewMu.Lock()
		s.current = r.ID
		s.filters = f
		s.viewMu.Unlock()

		s.metrics.IncrementReportsGenerated(string(f.ReportType))
		s.logger.InfoContext(ctx, "report generated",
			"report_id", r.ID,
			"type", string(r.Type),
			"points", len(r.Series),
			"request_id", requestcontext.RequestID(ctx),
		)
		return &r, nil
	})
}

// Export renders report id in format.
func (s *Service) Export(ctx context.Context, id string, format models.ExportFormat) (*models.Export, error) {
	if format == "" {
		format = models.FormatCSV
	}
	upper := strings.ToUpper(string(format))
	spec := operation.Spec{
		Store:   storeName,
		Name:    "export",
		Latency: operation.LatencyExport,
		Pending: "Exporting report as " + upper + "...",
		Success: "Report exported as " + upper + " successfully",
		Failure: "Failed to export report",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (*models.Export, error) {
		r, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, translate(err, id)
		}
		out, err := Render(*r, format)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "report exported",
			"report_id", id,
			"format", string(format),
			"bytes", len(out.Body),
			"request_id", requestcontext.RequestID(ctx),
		)
		return out, nil
	})
}

// Delete removes the report and clears the current selection if it was it.
func (s *Service) Delete(ctx context.Context, id string) error {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "delete",
		Latency: deleteLatency,
		Pending: "Deleting report...",
		Success: "Report deleted successfully",
		Failure: "Failed to delete report",
	}
	return s.runner.Run(ctx, spec, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, id); err != nil {
			return translate(err, id)
		}
		s.viewMu.Lock()
		if s.current == id {
			s.current = ""
		}
		s.viewMu.Unlock()
		return nil
	})
}

func (s *Service) List(ctx context.Context) ([]models.Report, error) {
	reports, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return reports, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Report, bool) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return r, true
}

// SetCurrent selects id, or clears the selection when id is unknown.
func (s *Service) SetCurrent(ctx context.Context, id string) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		id = ""
	}
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.current = id
}

func (s *Service) Current(ctx context.Context) (*models.Report, bool) {
	s.viewMu.RLock()
	id := s.current
	s.viewMu.RUnlock()
	if id == "" {
		return nil, false
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Filters() models.Filters {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.filters
}

// SetFilters replaces the current filters after validation. It is view-state
// only, so no notification is emitted.
func (s *Service) SetFilters(in models.FiltersInput) (models.Filters, error) {
	valid, err := s.schema.Validate(in)
	if err != nil {
		return models.Filters{}, err
	}
	f := valid.Filters()
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.filters = f
	return f, nil
}

// Filtered lists reports of the current type generated inside the current
// window, bounds included.
func (s *Service) Filtered(ctx context.Context) ([]models.Report, error) {
	reports, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	f := s.Filters()
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if f.ReportType != "" && r.Type != f.ReportType {
			continue
		}
		if r.GeneratedAt.Before(f.StartDate) || r.GeneratedAt.After(f.EndDate) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Summary aggregates the current report's series. It returns nil when no
// report is current, the report is composite, or the series is empty.
func (s *Service) Summary(ctx context.Context) *models.Summary {
	r, ok := s.Current(ctx)
	if !ok {
		return nil
	}
	return Summarize(r.Series)
}

func Summarize(points []models.Point) *models.Summary {
	if len(points) == 0 {
		return nil
	}
	sum := &models.Summary{Min: points[0].Value, Max: points[0].Value, Count: len(points)}
	for _, p := range points {
		sum.Total += p.Value
		sum.Min = min(sum.Min, p.Value)
		sum.Max = max(sum.Max, p.Value)
	}
	sum.Average = math.Round(float64(sum.Total)/float64(sum.Count)*100) / 100
	return sum
}

func translate(err error, id string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.NotFound("report", id)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "report store failure")
}
