package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"backoffice/internal/dashboard/models"
	"backoffice/internal/dashboard/store"
	"backoffice/internal/notify"
	"backoffice/internal/operation"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/requestcontext"
)

func ptr[T any](v T) *T { return &v }

type DashboardServiceSuite struct {
	suite.Suite
	ctx     context.Context
	channel *notify.Channel
	store   *store.InMemoryStore
	service *Service
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}

func (s *DashboardServiceSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.channel = notify.New(notify.WithLogger(logger))
	runner := operation.NewRunner(s.channel, operation.WithExecutor(operation.Immediate()), operation.WithLogger(logger))
	s.store = store.NewInMemoryStore(models.SeedStats(), time.Time{}, models.SeedActivity()...)
	s.service = New(s.store, runner,
		WithLogger(logger),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
}

func (s *DashboardServiceSuite) TearDownTest() {
	s.channel.Close()
}

func (s *DashboardServiceSuite) TestRefreshDriftsWithinBounds() {
	at := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, at)

	for range 20 {
		prev, _, _ := s.service.Stats(s.ctx)
		got, err := s.service.Refresh(ctx)
		s.Require().NoError(err)

		s.GreaterOrEqual(got.TotalUsers, prev.TotalUsers)
		s.Less(got.TotalUsers, prev.TotalUsers+10)
		s.GreaterOrEqual(got.ActiveUsers, prev.ActiveUsers)
		s.Less(got.ActiveUsers, prev.ActiveUsers+5)
		s.GreaterOrEqual(got.NewUsers, 30)
		s.Less(got.NewUsers, 50)
		s.GreaterOrEqual(got.TotalRevenue, prev.TotalRevenue)
		s.Less(got.TotalRevenue, prev.TotalRevenue+5000)
		s.InDelta(prev.MonthlyGrowth, got.MonthlyGrowth, 1)
		s.InDelta(prev.ConversionRate, got.ConversionRate, 0.25)
	}

	_, updated, _ := s.service.Stats(s.ctx)
	s.Equal(at, updated)
}

func (s *DashboardServiceSuite) mustStats() models.Stats {
	st, _, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	return st
}

func (s *DashboardServiceSuite) TestRefreshNotifiesOnce() {
	_, err := s.service.Refresh(s.ctx)
	s.Require().NoError(err)

	list := s.channel.List()
	s.Require().Len(list, 1)
	s.Equal(notify.KindSuccess, list[0].Kind)
	s.Equal("Dashboard refreshed successfully", list[0].Message)
}

func (s *DashboardServiceSuite) TestRefreshCancelled() {
	runner := operation.NewRunner(s.channel,
		operation.WithExecutor(operation.Simulated()),
		operation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	svc := New(s.store, runner)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := svc.Refresh(ctx)
	s.Require().Error(err)
	s.Equal(models.SeedStats(), s.mustStats())

	list := s.channel.List()
	s.Require().Len(list, 1)
	s.Equal(notify.KindError, list[0].Kind)
	s.Equal("Failed to refresh dashboard", list[0].Message)
}

func (s *DashboardServiceSuite) TestAddActivityKeepsTen() {
	var ids []string
	for i := range 8 {
		a, err := s.service.AddActivity(s.ctx, models.ActivityInput{
			Type:    ptr(models.ActivityLogin),
			Message: ptr(fmt.Sprintf("login %d", i)),
		})
		s.Require().NoError(err)
		ids = append(ids, a.ID)
	}

	log, err := s.service.Activities(s.ctx)
	s.Require().NoError(err)
	s.Len(log, store.MaxActivities)
	s.Equal("login 7", log[0].Message)
	s.Equal("login 0", log[7].Message)
	s.Equal("2", log[9].ID, "oldest surviving seed entry")

	seen := map[string]bool{}
	for _, id := range ids {
		s.False(seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	s.Empty(s.channel.List(), "activity is recorded silently")
}

func (s *DashboardServiceSuite) TestAddActivityValidation() {
	_, err := s.service.AddActivity(s.ctx, models.ActivityInput{
		Type:    ptr(models.ActivityType("logout")),
		Message: ptr("bye"),
	})
	s.True(dErrors.Is(err, dErrors.CodeValidation))
	s.Equal("type", dErrors.FieldsOf(err)[0].Path)

	_, err = s.service.AddActivity(s.ctx, models.ActivityInput{Type: ptr(models.ActivityLogin), Message: ptr("  ")})
	s.Equal("Message is required", dErrors.FirstMessage(err, ""))
}

func (s *DashboardServiceSuite) TestActivityByType() {
	s.service.Record(s.ctx, models.ActivityLogin, "User logged in", "a@example.com")

	counts, err := s.service.ActivityByType(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[models.ActivityType]int{
		models.ActivityUserCreated:     1,
		models.ActivityLogin:           2,
		models.ActivityReportGenerated: 1,
		models.ActivityUserUpdated:     1,
		models.ActivityUserDeleted:     1,
	}, counts)
}

func (s *DashboardServiceSuite) TestFormattedStats() {
	got, err := s.service.FormattedStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.FormattedStats{
		TotalUsers:     "1,247",
		ActiveUsers:    "892",
		NewUsers:       "45",
		TotalRevenue:   "$125,000",
		MonthlyGrowth:  "12.5%",
		ConversionRate: "3.2%",
	}, got)
}

func (s *DashboardServiceSuite) TestCharts() {
	charts := s.service.Charts()
	s.Equal([]string{"Admin", "Manager", "User", "Viewer"}, charts.RoleDistribution.Labels)
	s.Len(charts.UserGrowth.Datasets[0].Data, 6)
}
