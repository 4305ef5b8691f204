package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/notify"
	"backoffice/internal/operation"
	"backoffice/internal/settings/models"
	"backoffice/internal/settings/store"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/requestcontext"
)

func ptr[T any](v T) *T { return &v }

type recordingApplier struct {
	applied []bool
}

func (a *recordingApplier) ApplyTheme(_ context.Context, dark bool) {
	a.applied = append(a.applied, dark)
}

type SettingsServiceSuite struct {
	suite.Suite
	ctx     context.Context
	channel *notify.Channel
	store   *store.InMemoryStore
	applier *recordingApplier
	service *Service
}

func TestSettingsServiceSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.channel = notify.New(notify.WithLogger(logger))
	runner := operation.NewRunner(s.channel, operation.WithExecutor(operation.Immediate()), operation.WithLogger(logger))
	s.store = store.NewInMemoryStore()
	s.applier = &recordingApplier{}
	s.service = New(s.store, runner,
		WithLogger(logger),
		WithThemeApplier(s.applier),
		WithHashCost(bcrypt.MinCost),
	)
}

func (s *SettingsServiceSuite) TearDownTest() {
	s.channel.Close()
}

func (s *SettingsServiceSuite) onlyNotification() notify.Notification {
	list := s.channel.List()
	s.Require().Len(list, 1, "expected exactly one notification, got %+v", list)
	return list[0]
}

func (s *SettingsServiceSuite) completePassword(current, next, confirm string) models.PasswordChange {
	return models.PasswordChange{
		CurrentPassword: ptr(current),
		NewPassword:     ptr(next),
		ConfirmPassword: ptr(confirm),
	}
}

func (s *SettingsServiceSuite) TestUpdateProfile() {
	s.Run("partial update keeps other fields", func() {
		p, err := s.service.UpdateProfile(s.ctx, models.ProfileInput{
			FirstName: ptr("Test"),
			LastName:  ptr("User"),
		})
		s.Require().NoError(err)
		s.Equal("Test User", p.FullName())
		s.Equal("TU", p.Initials())
		s.Equal("john.doe@example.com", p.Email)

		n := s.onlyNotification()
		s.Equal(notify.KindSuccess, n.Kind)
		s.Equal("Profile updated successfully", n.Message)
	})

	s.Run("invalid first name shows its message", func() {
		s.SetupTest()
		_, err := s.service.UpdateProfile(s.ctx, models.ProfileInput{FirstName: ptr("J")})
		s.True(dErrors.Is(err, dErrors.CodeValidation))

		n := s.onlyNotification()
		s.Equal(notify.KindError, n.Kind)
		s.Equal("First name must be at least 2 characters", n.Message)

		p, _ := s.service.Profile(s.ctx)
		s.Equal("John", p.FirstName)
	})
}

func (s *SettingsServiceSuite) TestUpdatePreferences() {
	s.Run("language only", func() {
		prefs, err := s.service.UpdatePreferences(s.ctx, models.PreferencesInput{Language: ptr(models.Language("fr"))})
		s.Require().NoError(err)
		s.Equal(models.Language("fr"), prefs.Language)
		s.Equal(models.ThemeSystem, prefs.Theme)
		s.Empty(s.applier.applied)
		s.Equal("Preferences updated successfully", s.onlyNotification().Message)
	})

	s.Run("theme change is applied", func() {
		s.SetupTest()
		_, err := s.service.UpdatePreferences(s.ctx, models.PreferencesInput{Theme: ptr(models.ThemeDark)})
		s.Require().NoError(err)
		s.True(s.service.IsDarkMode())
		s.Equal([]bool{true}, s.applier.applied)
	})

	s.Run("out of range refresh interval", func() {
		s.SetupTest()
		_, err := s.service.UpdatePreferences(s.ctx, models.PreferencesInput{
			Dashboard: &models.DashboardPrefsInput{
				DefaultView:     ptr(models.DashboardView("overview")),
				RefreshInterval: ptr(10),
				ShowCharts:      ptr(true),
				ShowActivity:    ptr(true),
			},
		})
		s.Require().Error(err)
		fields := dErrors.FieldsOf(err)
		s.Require().Len(fields, 1)
		s.Equal("dashboard.refresh_interval", fields[0].Path)
		s.Equal("Number must be greater than or equal to 30", s.onlyNotification().Message)
	})

	s.Run("incomplete nested group is rejected", func() {
		s.SetupTest()
		_, err := s.service.UpdatePreferences(s.ctx, models.PreferencesInput{
			Notifications: &models.NotificationPrefsInput{Email: ptr(false)},
		})
		s.True(dErrors.Is(err, dErrors.CodeValidation))
		prefs, _ := s.service.Preferences(s.ctx)
		s.True(prefs.Notifications.Email)
	})
}

func (s *SettingsServiceSuite) TestSystemTheme() {
	s.False(s.service.IsDarkMode())
	s.service.SetSystemPrefersDark(s.ctx, true)
	s.True(s.service.IsDarkMode())

	_, err := s.service.UpdatePreferences(s.ctx, models.PreferencesInput{Theme: ptr(models.ThemeLight)})
	s.Require().NoError(err)
	s.False(s.service.IsDarkMode())
}

func (s *SettingsServiceSuite) TestChangePassword() {
	s.Run("mismatch reported on confirmation", func() {
		err := s.service.ChangePassword(s.ctx, s.completePassword("old", "password123", "password124"))
		s.Require().Error(err)
		fields := dErrors.FieldsOf(err)
		s.Require().Len(fields, 1)
		s.Equal("confirm_password", fields[0].Path)
		s.Equal("Passwords don't match", s.onlyNotification().Message)
		s.False(s.service.HasPassword(s.ctx))
	})

	s.Run("short password", func() {
		s.SetupTest()
		err := s.service.ChangePassword(s.ctx, s.completePassword("old", "short", "short"))
		s.Require().Error(err)
		s.Equal("Password must be at least 8 characters", s.onlyNotification().Message)
	})

	s.Run("stores a hash and verifies it next time", func() {
		s.SetupTest()
		s.Require().NoError(s.service.ChangePassword(s.ctx, s.completePassword("anything", "password123", "password123")))
		s.True(s.service.HasPassword(s.ctx))
		s.Equal("Password changed successfully", s.onlyNotification().Message)

		acc, _ := s.store.Load(s.ctx)
		s.NoError(bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte("password123")))

		s.channel.Dismiss(s.onlyNotification().ID)
		err := s.service.ChangePassword(s.ctx, s.completePassword("wrong-one", "password456", "password456"))
		s.True(dErrors.Is(err, dErrors.CodeValidation))
		s.Equal("Current password is incorrect", s.onlyNotification().Message)

		s.channel.Dismiss(s.onlyNotification().ID)
		s.NoError(s.service.ChangePassword(s.ctx, s.completePassword("password123", "password456", "password456")))
	})
}

func (s *SettingsServiceSuite) TestUploadAvatar() {
	s.Run("non-image", func() {
		_, err := s.service.UploadAvatar(s.ctx, models.AvatarUpload{ContentType: "application/pdf", Size: 10})
		s.True(dErrors.Is(err, dErrors.CodeUnsupported))
		n := s.onlyNotification()
		s.Equal(notify.KindError, n.Kind)
		s.Equal("Please select an image file", n.Message)
	})

	s.Run("too large", func() {
		s.SetupTest()
		_, err := s.service.UploadAvatar(s.ctx, models.AvatarUpload{ContentType: "image/png", Size: MaxAvatarBytes + 1})
		s.True(dErrors.Is(err, dErrors.CodeTooLarge))
		s.Equal("File size must be less than 5MB", s.onlyNotification().Message)
	})

	s.Run("accepted", func() {
		s.SetupTest()
		at := time.UnixMilli(1700000000000)
		ctx := requestcontext.WithTime(s.ctx, at)
		url, err := s.service.UploadAvatar(ctx, models.AvatarUpload{ContentType: "image/png", Size: MaxAvatarBytes})
		s.Require().NoError(err)
		s.Equal("https://images.unsplash.com/photo-1700000000000?w=150&h=150&fit=crop&crop=face", url)

		p, _ := s.service.Profile(s.ctx)
		s.Equal(url, p.Avatar)
		s.Equal("Avatar uploaded successfully", s.onlyNotification().Message)
	})
}

func (s *SettingsServiceSuite) TestExportData() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out, err := s.service.ExportData(requestcontext.WithTime(s.ctx, at))
	s.Require().NoError(err)
	s.Equal(models.DefaultProfile(), out.Profile)
	s.Equal(models.DefaultPreferences(), out.Preferences)
	s.Equal(at, out.ExportedAt)
	s.Equal("Data exported successfully", s.onlyNotification().Message)
}

func (s *SettingsServiceSuite) TestDeleteAccount() {
	s.Run("wrong confirmation shows only an error", func() {
		_, err := s.service.UpdatePreferences(s.ctx, models.PreferencesInput{Language: ptr(models.Language("de"))})
		s.Require().NoError(err)
		s.channel.Dismiss(s.onlyNotification().ID)

		err = s.service.DeleteAccount(s.ctx, "delete")
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
		n := s.onlyNotification()
		s.Equal(notify.KindError, n.Kind)
		s.Equal("Please type DELETE to confirm account deletion", n.Message)

		prefs, _ := s.service.Preferences(s.ctx)
		s.Equal(models.Language("de"), prefs.Language)
	})

	s.Run("confirmed resets to defaults", func() {
		s.SetupTest()
		_, err := s.service.UpdateProfile(s.ctx, models.ProfileInput{FirstName: ptr("Jane")})
		s.Require().NoError(err)
		s.channel.Dismiss(s.onlyNotification().ID)

		s.Require().NoError(s.service.DeleteAccount(s.ctx, DeleteConfirmation))
		p, _ := s.service.Profile(s.ctx)
		s.Equal("John", p.FirstName)
		s.Equal("Account deleted successfully", s.onlyNotification().Message)
	})
}

func (s *SettingsServiceSuite) TestSummarize() {
	sum, err := s.service.Summarize(s.ctx)
	s.Require().NoError(err)
	s.Equal(Summary{FullName: "John Doe", Initials: "JD", DarkMode: false}, sum)
}
