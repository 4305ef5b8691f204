package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/operation"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/users/models"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/sentinel"
	"backoffice/pkg/platform/validation"
	"backoffice/pkg/requestcontext"
)

const storeName = "users"

type Store interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Append(ctx context.Context, u models.User) error
	Update(ctx context.Context, id string, fn func(*models.User)) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// Service owns the user collection and its list view-state.
type Service struct {
	store   Store
	runner  *operation.Runner
	schema  *validation.Schema[models.UserInput]
	logger  *slog.Logger
	metrics *metrics.Metrics
	newID   func() string

	viewMu   sync.RWMutex
	filter   models.Filter
	selected string
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

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(store Store, runner *operation.Runner, opts ...Option) *Service {
	s := &Service{
		store:  store,
		runner: runner,
		schema: models.UserSchema(),
		logger: slog.Default(),
		newID:  uuid.NewString,
		filter: models.Filter{Status: models.FilterAll, Role: models.FilterAll},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "create",
		Latency: operation.LatencyCreate,
		Pending: "Creating user...",
		Success: "User created successfully",
		Failure: "Failed to create user",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (*models.User, error) {
		valid, err := s.schema.Validate(in)
		if err != nil {
			return nil, err
		}
		var u models.User
		valid.Apply(&u)
		u.ID = s.newID()
		u.CreatedAt = requestcontext.Now(ctx)

		if err := s.store.Append(ctx, u); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
		}
		s.metrics.IncrementUsersCreated()
		s.logger.InfoContext(ctx, "user created",
			"user_id", u.ID,
			"role", string(u.Role),
			"request_id", requestcontext.RequestID(ctx),
		)
		return &u, nil
	})
}

// Update validates the supplied fields before looking the record up, so an
// invalid payload for a missing id reports the validation failure.
func (s *Service) Update(ctx context.Context, id string, in models.UserInput) (*models.User, error) {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "update",
		Latency: operation.LatencyUpdate,
		Pending: "Updating user...",
		Success: "User updated successfully",
		Failure: "Failed to update user",
	}
	return operation.Do(ctx, s.runner, spec, func(ctx context.Context) (*models.User, error) {
		valid, err := s.schema.ValidatePartial(in)
		if err != nil {
			return nil, err
		}
		u, err := s.store.Update(ctx, id, valid.Apply)
		if err != nil {
			return nil, translate(err, id)
		}
		s.logger.InfoContext(ctx, "user updated",
			"user_id", id,
			"request_id", requestcontext.RequestID(ctx),
		)
		return u, nil
	})
}

// Delete removes the user and clears the selection if it pointed at it.
func (s *Service) Delete(ctx context.Context, id string) error {
	spec := operation.Spec{
		Store:   storeName,
		Name:    "delete",
		Latency: operation.LatencyDelete,
		Pending: "Deleting user...",
		Success: "User deleted successfully",
		Failure: "Failed to delete user",
	}
	return s.runner.Run(ctx, spec, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, id); err != nil {
			return translate(err, id)
		}
		s.viewMu.Lock()
		if s.selected == id {
			s.selected = ""
		}
		s.viewMu.Unlock()

		s.logger.InfoContext(ctx, "user deleted",
			"user_id", id,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, bool) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return u, true
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// Filtered applies the current view filter.
func (s *Service) Filtered(ctx context.Context) ([]models.User, error) {
	return s.FilteredBy(ctx, s.Filter())
}

func (s *Service) FilteredBy(ctx context.Context, f models.Filter) ([]models.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if f.Matches(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// CountByRole groups the whole collection by role. Roles with no users are
// omitted.
func (s *Service) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[models.Role]int)
	for _, u := range users {
		counts[u.Role]++
	}
	return counts, nil
}

func (s *Service) Filter() models.Filter {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.filter
}

func (s *Service) SetFilter(f models.Filter) {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.filter = f
}

// Select marks id as the current selection. Unknown ids are rejected.
func (s *Service) Select(ctx context.Context, id string) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return translate(err, id)
	}
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.selected = id
	return nil
}

// Selected returns the selected user, if any.
func (s *Service) Selected(ctx context.Context) (*models.User, bool) {
	s.viewMu.RLock()
	id := s.selected
	s.viewMu.RUnlock()
	if id == "" {
		return nil, false
	}
	return s.GetByID(ctx, id)
}

func translate(err error, id string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.NotFound("user", id)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "user store failure")
}

// RecordLogin stamps LastLogin on the user with email, if there is one.
func (s *Service) RecordLogin(ctx context.Context, email string, at time.Time) {
	users, err := s.store.List(ctx)
	if err != nil {
		return
	}
	for _, u := range users {
		if u.Email == email {
			_, _ = s.store.Update(ctx, u.ID, func(u *models.User) { u.LastLogin = &at })
			return
		}
	}
}
