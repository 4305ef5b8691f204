package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/operation"
	"backoffice/internal/settings/models"
	"backoffice/internal/settings/store"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/validation"
	"backoffice/pkg/requestcontext"
)

const (
	storeName = "settings"

	// MaxAvatarBytes is the largest accepted avatar upload.
	MaxAvatarBytes = 5 * 1024 * 1024

	// DeleteConfirmation must be typed verbatim to delete the account.
	DeleteConfirmation = "DELETE"

	avatarURLFormat = "https://images.unsplash.com/photo-%d?w=150&h=150&fit=crop&crop=face"
)

type Store interface {
	Load(ctx context.Context) (store.Account, error)
	Update(ctx context.Context, fn func(*store.Account) error) (store.Account, error)
	Reset(ctx context.Context) error
}

// ThemeApplier receives the effective dark-mode flag whenever the theme is
// applied.
type ThemeApplier interface {
	ApplyTheme(ctx context.Context, dark bool)
}

// Service owns the signed-in operator's profile, preferences and password.
type Service struct {
	store    Store
	runner   *operation.Runner
	logger   *slog.Logger
	applier  ThemeApplier
	hashCost int
	profile  *validation.Schema[models.ProfileInput]
	prefs    *validation.Schema[models.PreferencesInput]
	password *validation.Schema[models.PasswordChange]

	mu         sync.RWMutex
	systemDark bool
	dark       bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithThemeApplier(a ThemeApplier) Option {
	return func(s *Service) {
		s.applier = a
	}
}

// WithSystemPrefersDark sets what the "system" theme resolves to.
func WithSystemPrefersDark(dark bool) Option {
	return func(s *Service) {
		s.systemDark = dark
	}
}

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

func New(st Store, runner *operation.Runner, opts ...Option) *Service {
	s := &Service{
		store:    st,
		runner:   runner,
		logger:   slog.Default(),
		hashCost: bcrypt.DefaultCost,
		profile:  models.ProfileSchema(),
		prefs:    models.PreferencesSchema(),
		password: models.PasswordSchema(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dark = s.resolveDark(models.DefaultPreferences().Theme)
	return s
}

func (s *Service) UpdateProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, error) {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "update_profile",
		Latency: operation.LatencyProfile,
		Pending: "Updating profile...",
		Success: "Profile updated successfully",
		Failure: "Failed to update profile",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (*models.Profile, error) {
		valid, err := s.profile.ValidatePartial(in)
		if err != nil {
			return nil, err
		}
		acc, err := s.store.Update(ctx, func(a *store.Account) error {
			valid.Apply(&a.Profile)
			return nil
		})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
		}
		s.logger.InfoContext(ctx, "profile updated",
			"request_id", requestcontext.RequestID(ctx),
		)
		return &acc.Profile, nil
	})
}

// UpdatePreferences merges the supplied preferences. A theme change is
// applied before the operation reports success.
func (s *Service) UpdatePreferences(ctx context.Context, in models.PreferencesInput) (*models.Preferences, error) {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "update_preferences",
		Latency: operation.LatencyUpdate,
		Pending: "Updating preferences...",
		Success: "Preferences updated successfully",
		Failure: "Failed to update preferences",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (*models.Preferences, error) {
		valid, err := s.prefs.ValidatePartial(in)
		if err != nil {
			return nil, err
		}
		acc, err := s.store.Update(ctx, func(a *store.Account) error {
			valid.Apply(&a.Preferences)
			return nil
		})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save preferences")
		}
		if valid.Theme != nil {
			s.ApplyTheme(ctx, *valid.Theme)
		}
		return &acc.Preferences, nil
	})
}

// ChangePassword stores a bcrypt hash of the new password. Once a password
// has been set, the current one must match it.
func (s *Service) ChangePassword(ctx context.Context, in models.PasswordChange) error {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "change_password",
		Latency: operation.LatencyPassword,
		Pending: "Changing password...",
		Success: "Password changed successfully",
		Failure: "Failed to change password",
	}
	return s.runner.Run(ctx, spec, func(ctx context.Context) error {
		valid, err := s.password.Validate(in)
		if err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*valid.NewPassword), s.hashCost)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
		}
		_, err = s.store.Update(ctx, func(a *store.Account) error {
			if len(a.PasswordHash) > 0 {
				if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(*valid.CurrentPassword)) != nil {
					return dErrors.Validation(dErrors.FieldError{
						Path:    "current_password",
						Message: "Current password is incorrect",
					})
				}
			}
			a.PasswordHash = hash
			return nil
		})
		if err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "password changed",
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	})
}

// UploadAvatar accepts image content up to MaxAvatarBytes and returns the new
// avatar URL.
func (s *Service) UploadAvatar(ctx context.Context, upload models.AvatarUpload) (string, error) {
	spec := operation.Spec{
		Store:        storeName,
		Name:         "upload_avatar",
		Latency:      operation.LatencyUpload,
		Pending:      "Uploading avatar...",
		Success:      "Avatar uploaded successfully",
		Failure:      "Failed to upload avatar",
		ExposeErrors: true,
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (string, error) {
		if !strings.HasPrefix(upload.ContentType, "image/") {
			return "", dErrors.New(dErrors.CodeUnsupported, "Please select an image file")
		}
		if upload.Size > MaxAvatarBytes {
			return "", dErrors.New(dErrors.CodeTooLarge, "File size must be less than 5MB")
		}
		url := fmt.Sprintf(avatarURLFormat, requestcontext.Now(ctx).UnixMilli())
		if _, err := s.store.Update(ctx, func(a *store.Account) error {
			a.Profile.Avatar = url
			return nil
		}); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to save avatar")
		}
		return url, nil
	})
}

func (s *Service) ExportData(ctx context.Context) (*models.DataExport, error) {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "export_data",
		Latency: operation.LatencyDataExport,
		Pending: "Exporting data...",
		Success: "Data exported successfully",
		Failure: "Failed to export data",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (*models.DataExport, error) {
		acc, err := s.store.Load(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
		}
		return &models.DataExport{
			Profile:     acc.Profile,
			Preferences: acc.Preferences,
			ExportedAt:  requestcontext.Now(ctx).UTC(),
		}, nil
	})
}

// DeleteAccount resets the account to its defaults. Anything other than the
// exact confirmation word is rejected without starting the operation.
func (s *Service) DeleteAccount(ctx context.Context, confirmation string) error {
	spec := operation.Spec{
		Store:        storeName,
		Name:         "delete_account",
		Latency:      operation.LatencyAccount,
		Pending:      "Deleting account...",
		Success:      "Account deleted successfully",
		Failure:      "Failed to delete account",
		ExposeErrors: true,
	}
	if confirmation != DeleteConfirmation {
		return s.runner.Reject(ctx, spec,
			dErrors.New(dErrors.CodeBadRequest, "Please type DELETE to confirm account deletion"))
	}
	return s.runner.Run(ctx, spec, func(ctx context.Context) error {
		if err := s.store.Reset(ctx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete account")
		}
		s.ApplyTheme(ctx, models.DefaultPreferences().Theme)
		s.logger.WarnContext(ctx, "account deleted",
			"subject", requestcontext.Subject(ctx),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	})
}

func (s *Service) Profile(ctx context.Context) (models.Profile, error) {
	acc, err := s.store.Load(ctx)
	if err != nil {
		return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return acc.Profile, nil
}

func (s *Service) Preferences(ctx context.Context) (models.Preferences, error) {
	acc, err := s.store.Load(ctx)
	if err != nil {
		return models.Preferences{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load preferences")
	}
	return acc.Preferences, nil
}

// HasPassword reports whether a password has been set.
func (s *Service) HasPassword(ctx context.Context) bool {
	acc, err := s.store.Load(ctx)
	return err == nil && len(acc.PasswordHash) > 0
}

// ApplyTheme resolves theme to a dark-mode flag and hands it to the applier.
func (s *Service) ApplyTheme(ctx context.Context, theme models.Theme) {
	s.mu.Lock()
	s.dark = s.resolveDark(theme)
	dark := s.dark
	s.mu.Unlock()

	if s.applier != nil {
		s.applier.ApplyTheme(ctx, dark)
	}
}

// SetSystemPrefersDark records a change in the host preference and reapplies
// the current theme.
func (s *Service) SetSystemPrefersDark(ctx context.Context, dark bool) {
	s.mu.Lock()
	s.systemDark = dark
	s.mu.Unlock()

	prefs, err := s.Preferences(ctx)
	if err != nil {
		return
	}
	s.ApplyTheme(ctx, prefs.Theme)
}

// IsDarkMode is the flag last applied.
func (s *Service) IsDarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

func (s *Service) resolveDark(theme models.Theme) bool {
	return theme == models.ThemeDark || (theme == models.ThemeSystem && s.systemDark)
}

// Summary is the derived view of the profile.
type Summary struct {
	FullName string `json:"full_name"`
	Initials string `json:"initials"`
	DarkMode bool   `json:"dark_mode"`
}

func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{FullName: p.FullName(), Initials: p.Initials(), DarkMode: s.IsDarkMode()}, nil
}
