package httptransport

import (
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

	dashboardModels "backoffice/internal/dashboard/models"
	"backoffice/internal/transport/http/mocks"
	"backoffice/pkg/testutil"
)

//go:generate mockgen -source=handlers_auth.go -destination=mocks/auth-mocks.go -package=mocks TokenIssuer,LoginRecorder,ActivityRecorder

type AuthHandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	tokens   *mocks.MockTokenIssuer
	logins   *mocks.MockLoginRecorder
	activity *mocks.MockActivityRecorder
	router   chi.Router
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.tokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.logins = mocks.NewMockLoginRecorder(s.ctrl)
	s.activity = mocks.NewMockActivityRecorder(s.ctrl)

	h := NewAuthHandler(s.tokens, time.Hour, s.logins, s.activity, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterProtected(s.router)
}

func (s *AuthHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	return testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), method, path, body))
}

func (s *AuthHandlerSuite) TestIssueToken() {
	s.Run("issues a bearer token and records the login", func() {
		expires := time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC)
		s.tokens.EXPECT().GenerateAccessToken("admin@example.com", "Admin", time.Hour).Return("signed", expires, nil)
		s.logins.EXPECT().RecordLogin(gomock.Any(), "admin@example.com", gomock.Any())
		s.activity.EXPECT().Record(gomock.Any(), dashboardModels.ActivityLogin, "User logged in", "admin@example.com")

		rr := s.do(http.MethodPost, "/auth/token", map[string]any{"email": " Admin@Example.com ", "name": "Admin"})
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
		got := testutil.Decode[TokenResponse](s.T(), rr)
		s.Equal("signed", got.AccessToken)
		s.Equal("Bearer", got.TokenType)
		s.True(expires.Equal(got.ExpiresAt))
	})

	s.Run("name defaults to the email", func() {
		s.tokens.EXPECT().GenerateAccessToken("ops@example.com", "ops@example.com", time.Hour).Return("t", time.Now(), nil)
		s.logins.EXPECT().RecordLogin(gomock.Any(), gomock.Any(), gomock.Any())
		s.activity.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		rr := s.do(http.MethodPost, "/auth/token", map[string]any{"email": "ops@example.com"})
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("invalid email", func() {
		s.tokens.EXPECT().GenerateAccessToken(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		rr := s.do(http.MethodPost, "/auth/token", map[string]any{"email": "not-an-email"})
		env := testutil.AssertError(s.T(), rr, http.StatusUnprocessableEntity, "validation_error")
		s.Equal("Invalid email address", env.Fields[0].Message)
	})

	s.Run("signing failure", func() {
		s.tokens.EXPECT().GenerateAccessToken(gomock.Any(), gomock.Any(), gomock.Any()).Return("", time.Time{}, errors.New("bad key"))
		rr := s.do(http.MethodPost, "/auth/token", map[string]any{"email": "ops@example.com"})
		testutil.AssertError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}

func (s *AuthHandlerSuite) TestWhoami() {
	rr := s.do(http.MethodGet, "/auth/me", nil)
	testutil.AssertError(s.T(), rr, http.StatusUnauthorized, "unauthorized")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rr = testutil.Serve(s.router, testutil.WithSubject(req, "admin@example.com"))
	s.Equal(http.StatusOK, rr.Code)
	s.Equal("admin@example.com", testutil.Decode[whoamiResponse](s.T(), rr).Subject)
}
