package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"backoffice/internal/notify"
	"backoffice/internal/operation"
	"backoffice/internal/reports/models"
	"backoffice/internal/reports/store"
	dErrors "backoffice/pkg/domain-errors"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type ReportServiceSuite struct {
	suite.Suite
	ctx     context.Context
	channel *notify.Channel
	service *Service
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.channel = notify.New(notify.WithLogger(logger))
	runner := operation.NewRunner(s.channel, operation.WithExecutor(operation.Immediate()), operation.WithLogger(logger))
	s.service = New(store.NewInMemoryStore(), runner,
		WithLogger(logger),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time { return fixedNow }))
}

func (s *ReportServiceSuite) TearDownTest() {
	s.channel.Close()
}

func (s *ReportServiceSuite) input(t models.ReportType) models.FiltersInput {
	return models.FiltersInput{
		StartDate:  ptr(fixedNow.AddDate(0, 0, -30)),
		EndDate:    ptr(fixedNow),
		ReportType: ptr(t),
		GroupBy:    ptr(models.GroupByDay),
	}
}

func (s *ReportServiceSuite) lastNotification() notify.Notification {
	list := s.channel.List()
	s.Require().NotEmpty(list)
	return list[len(list)-1]
}

func (s *ReportServiceSuite) TestGenerateThirtyDayWindow() {
	r, err := s.service.Generate(s.ctx, s.input(models.TypeUsers))
	s.Require().NoError(err)

	s.Equal("Users Report", r.Title)
	s.Len(r.Series, 31)
	s.Equal("2024-01-31", r.Series[0].Date)
	s.Equal("2024-03-01", r.Series[30].Date)
	for _, p := range r.Series {
		s.GreaterOrEqual(p.Value, 50)
		s.Less(p.Value, 150)
	}
	s.Equal("Report generated successfully", s.lastNotification().Message)
	s.Len(s.channel.List(), 1)

	current, ok := s.service.Current(s.ctx)
	s.Require().True(ok)
	s.Equal(r.ID, current.ID)
	s.Equal(models.TypeUsers, s.service.Filters().ReportType)
}

func (s *ReportServiceSuite) TestConcurrentGenerates() {
	const n = 20
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sleeping := operation.ExecutorFunc(func(ctx context.Context, _ time.Duration, fn func(context.Context) error) error {
		time.Sleep(time.Millisecond)
		return fn(ctx)
	})
	runner := operation.NewRunner(s.channel, operation.WithExecutor(sleeping), operation.WithLogger(logger))
	svc := New(store.NewInMemoryStore(), runner,
		WithLogger(logger),
		WithRand(rand.New(rand.NewPCG(3, 4))),
		WithClock(func() time.Time { return fixedNow }))

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(s.ctx, s.input(models.TypeActivity))
			s.NoError(err)
		}()
	}
	wg.Wait()

	reports, err := svc.List(s.ctx)
	s.Require().NoError(err)
	s.Len(reports, n)
	ids := make(map[string]bool, n)
	for _, r := range reports {
		ids[r.ID] = true
	}
	s.Len(ids, n)

	for _, note := range s.channel.List() {
		s.NotEqual(notify.KindPending, note.Kind)
	}
}

func (s *ReportServiceSuite) TestGenerateRanges() {
	cases := []struct {
		typ    models.ReportType
		lo, hi int
	}{
		{models.TypeRevenue, 5000, 15000},
		{models.TypeActivity, 100, 600},
	}
	for _, tc := range cases {
		s.Run(string(tc.typ), func() {
			r, err := s.service.Generate(s.ctx, s.input(tc.typ))
			s.Require().NoError(err)
			for _, p := range r.Series {
				s.GreaterOrEqual(p.Value, tc.lo)
				s.Less(p.Value, tc.hi)
			}
		})
	}
}

func (s *ReportServiceSuite) TestGeneratePerformanceIsComposite() {
	r, err := s.service.Generate(s.ctx, s.input(models.TypePerformance))
	s.Require().NoError(err)
	s.Nil(r.Series)
	s.Require().NotNil(r.Composite)
	s.Len(r.Composite.Users, 31)
	s.Len(r.Composite.Revenue, 31)
	s.Nil(s.service.Summary(s.ctx))
}

func (s *ReportServiceSuite) TestGenerateMostRecentFirst() {
	first, _ := s.service.Generate(s.ctx, s.input(models.TypeUsers))
	second, _ := s.service.Generate(s.ctx, s.input(models.TypeRevenue))

	reports, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(reports, 2)
	s.Equal(second.ID, reports[0].ID)
	s.Equal(first.ID, reports[1].ID)
}

func (s *ReportServiceSuite) TestGenerateValidation() {
	s.Run("end before start", func() {
		in := s.input(models.TypeUsers)
		in.EndDate = ptr(fixedNow.AddDate(0, 0, -31))
		_, err := s.service.Generate(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("end_date", dErrors.FieldsOf(err)[0].Path)

		n := s.lastNotification()
		s.Equal(notify.KindError, n.Kind)
		s.Equal("End date must be after start date", n.Message)
	})

	s.Run("window wider than the point cap", func() {
		s.SetupTest()
		in := s.input(models.TypePerformance)
		in.StartDate = ptr(time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC))
		in.EndDate = ptr(time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
		_, err := s.service.Generate(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("end_date", dErrors.FieldsOf(err)[0].Path)
		s.Equal("Date range must not exceed 3660 points", s.lastNotification().Message)

		reports, _ := s.service.List(s.ctx)
		s.Empty(reports)
		_, ok := s.service.Current(s.ctx)
		s.False(ok)
	})

	s.Run("unknown type adds nothing", func() {
		s.SetupTest()
		in := s.input("sales")
		_, err := s.service.Generate(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		reports, _ := s.service.List(s.ctx)
		s.Empty(reports)
		s.Len(s.channel.List(), 1)
	})
}

func (s *ReportServiceSuite) TestGroupings() {
	in := s.input(models.TypeUsers)
	in.GroupBy = ptr(models.GroupByWeek)
	r, err := s.service.Generate(s.ctx, in)
	s.Require().NoError(err)
	s.Len(r.Series, 5)

	in.GroupBy = ptr(models.GroupByMonth)
	in.StartDate = ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	in.EndDate = ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	r, err = s.service.Generate(s.ctx, in)
	s.Require().NoError(err)
	s.Len(r.Series, 6)

	in.GroupBy = nil
	r, err = s.service.Generate(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(models.GroupByDay, r.Filters.GroupBy)
}

func (s *ReportServiceSuite) TestExport() {
	r, err := s.service.Generate(s.ctx, s.input(models.TypeUsers))
	s.Require().NoError(err)

	s.Run("csv", func() {
		out, err := s.service.Export(s.ctx, r.ID, models.FormatCSV)
		s.Require().NoError(err)
		s.Equal("text/csv", out.ContentType)
		rows, err := csv.NewReader(bytes.NewReader(out.Body)).ReadAll()
		s.Require().NoError(err)
		s.Len(rows, 32)
		s.Equal([]string{"date", "value", "label"}, rows[0])
		s.Equal("Report exported as CSV successfully", s.lastNotification().Message)
	})

	s.Run("json", func() {
		out, err := s.service.Export(s.ctx, r.ID, models.FormatJSON)
		s.Require().NoError(err)
		var decoded models.Report
		s.Require().NoError(json.Unmarshal(out.Body, &decoded))
		s.Equal(r.ID, decoded.ID)
	})

	s.Run("pdf placeholder", func() {
		out, err := s.service.Export(s.ctx, r.ID, models.FormatPDF)
		s.Require().NoError(err)
		s.Equal("application/pdf", out.ContentType)
		s.Empty(out.Body)
	})

	s.Run("unsupported format", func() {
		_, err := s.service.Export(s.ctx, r.ID, "xml")
		s.True(dErrors.HasCode(err, dErrors.CodeUnsupported))
		s.Equal("Failed to export report", s.lastNotification().Message)
	})

	s.Run("unknown report", func() {
		_, err := s.service.Export(s.ctx, "nope", models.FormatCSV)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ReportServiceSuite) TestDeleteClearsCurrent() {
	r, _ := s.service.Generate(s.ctx, s.input(models.TypeUsers))
	s.Require().NoError(s.service.Delete(s.ctx, r.ID))

	_, ok := s.service.Current(s.ctx)
	s.False(ok)
	_, ok = s.service.GetByID(s.ctx, r.ID)
	s.False(ok)

	err := s.service.Delete(s.ctx, r.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal("Failed to delete report", s.lastNotification().Message)
}

func (s *ReportServiceSuite) TestSetCurrent() {
	a, _ := s.service.Generate(s.ctx, s.input(models.TypeUsers))
	_, _ = s.service.Generate(s.ctx, s.input(models.TypeRevenue))

	s.service.SetCurrent(s.ctx, a.ID)
	current, ok := s.service.Current(s.ctx)
	s.Require().True(ok)
	s.Equal(a.ID, current.ID)

	s.service.SetCurrent(s.ctx, "missing")
	_, ok = s.service.Current(s.ctx)
	s.False(ok)
}

func (s *ReportServiceSuite) TestFiltered() {
	_, _ = s.service.Generate(s.ctx, s.input(models.TypeUsers))
	_, _ = s.service.Generate(s.ctx, s.input(models.TypeRevenue))

	reports, err := s.service.Filtered(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(reports, 1)
	s.Equal(models.TypeRevenue, reports[0].Type)

	_, err = s.service.SetFilters(models.FiltersInput{
		StartDate:  ptr(fixedNow.AddDate(0, 0, -60)),
		EndDate:    ptr(fixedNow.AddDate(0, 0, -1)),
		ReportType: ptr(models.TypeUsers),
	})
	s.Require().NoError(err)
	reports, _ = s.service.Filtered(s.ctx)
	s.Empty(reports)
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, Summarize(nil))

	sum := Summarize([]models.Point{{Value: 10}, {Value: 20}, {Value: 25}})
	require.NotNil(t, sum)
	assert.Equal(t, 55, sum.Total)
	assert.Equal(t, 18.33, sum.Average)
	assert.Equal(t, 10, sum.Min)
	assert.Equal(t, 25, sum.Max)
	assert.Equal(t, 3, sum.Count)
}

func TestGeneratorIsDeterministicForASeed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10)
	a, err := NewGenerator(rand.New(rand.NewPCG(7, 7))).Series(context.Background(), models.TypeUsers, start, end, models.GroupByDay)
	require.NoError(t, err)
	b, err := NewGenerator(rand.New(rand.NewPCG(7, 7))).Series(context.Background(), models.TypeUsers, start, end, models.GroupByDay)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 11)
	assert.Equal(t, "1/1/2024", a[0].Label)
}

func TestGeneratorStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewGenerator(rand.New(rand.NewPCG(1, 1)))
	_, _, err := g.Build(ctx, models.Filters{
		StartDate:  start,
		EndDate:    start.AddDate(5, 0, 0),
		ReportType: models.TypePerformance,
		GroupBy:    models.GroupByDay,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Performance Report", Title(models.TypePerformance))
}
