package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"backoffice/internal/dashboard/handler/mocks"
	"backoffice/internal/dashboard/models"
	"backoffice/internal/dashboard/service"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks Service

type DashboardHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestDashboardHandlerSuite(t *testing.T) {
	suite.Run(t, new(DashboardHandlerSuite))
}

func (s *DashboardHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *DashboardHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	return testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), method, path, body))
}

func (s *DashboardHandlerSuite) TestOverview() {
	updated := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	stats := models.SeedStats()
	s.service.EXPECT().Stats(gomock.Any()).Return(stats, updated, nil)
	s.service.EXPECT().FormattedStats(gomock.Any()).Return(service.Format(stats), nil)

	rr := s.do(http.MethodGet, "/dashboard", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	body := testutil.Decode[overviewResponse](s.T(), rr)
	s.Equal(1247, body.Stats.TotalUsers)
	s.Equal("$125,000", body.Formatted.TotalRevenue)
	s.True(updated.Equal(body.LastUpdated))
}

func (s *DashboardHandlerSuite) TestRefresh() {
	s.Run("success", func() {
		s.service.EXPECT().Refresh(gomock.Any()).Return(models.Stats{TotalUsers: 1250}, nil)
		rr := s.do(http.MethodPost, "/dashboard/refresh", nil)
		s.Require().Equal(http.StatusOK, rr.Code)
		s.Equal(1250, testutil.Decode[models.Stats](s.T(), rr).TotalUsers)
	})

	s.Run("failure", func() {
		s.service.EXPECT().Refresh(gomock.Any()).Return(models.Stats{}, errors.New("backend down"))
		rr := s.do(http.MethodPost, "/dashboard/refresh", nil)
		testutil.AssertError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}

func (s *DashboardHandlerSuite) TestActivity() {
	log := models.SeedActivity()
	s.service.EXPECT().Activities(gomock.Any()).Return(log, nil)
	s.service.EXPECT().ActivityByType(gomock.Any()).Return(map[models.ActivityType]int{models.ActivityLogin: 1}, nil)

	rr := s.do(http.MethodGet, "/dashboard/activity", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	body := testutil.Decode[activityResponse](s.T(), rr)
	s.Len(body.Activities, len(log))
	s.Equal(1, body.ByType[models.ActivityLogin])
}

func (s *DashboardHandlerSuite) TestAddActivity() {
	s.Run("created", func() {
		s.service.EXPECT().AddActivity(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in models.ActivityInput) (*models.Activity, error) {
				s.Equal(models.ActivityReportGenerated, *in.Type)
				return &models.Activity{ID: "a-1", Type: *in.Type, Message: *in.Message}, nil
			})
		rr := s.do(http.MethodPost, "/dashboard/activity", map[string]any{
			"type": "report_generated", "message": "Weekly report generated",
		})
		s.Require().Equal(http.StatusCreated, rr.Code)
		s.Equal("a-1", testutil.Decode[models.Activity](s.T(), rr).ID)
	})

	s.Run("invalid", func() {
		s.service.EXPECT().AddActivity(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Validation(dErrors.FieldError{Path: "type", Message: "bad"}))
		rr := s.do(http.MethodPost, "/dashboard/activity", map[string]any{"type": "x", "message": "y"})
		testutil.AssertError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")
	})
}

func (s *DashboardHandlerSuite) TestCharts() {
	s.service.EXPECT().Charts().Return(models.SeedCharts())
	rr := s.do(http.MethodGet, "/dashboard/charts", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal("Revenue", testutil.Decode[models.Charts](s.T(), rr).Revenue.Datasets[0].Label)
}
