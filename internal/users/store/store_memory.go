package store

import (
	"context"
	"slices"
	"sync"

	"backoffice/internal/users/models"
	"backoffice/pkg/platform/sentinel"
)

// InMemoryStore keeps users in insertion order.
type InMemoryStore struct {
	mu    sync.RWMutex
	users []models.User
}

func NewInMemoryStore(seed ...models.User) *InMemoryStore {
	return &InMemoryStore{users: slices.Clone(seed)}
}

func (s *InMemoryStore) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, sentinel.ErrNotFound
	}
	u := s.users[idx]
	return &u, nil
}

func (s *InMemoryStore) Append(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	return nil
}

// Update applies fn to the stored record under the write lock.
func (s *InMemoryStore) Update(_ context.Context, id string, fn func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, sentinel.ErrNotFound
	}
	fn(&s.users[idx])
	u := s.users[idx]
	return &u, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return sentinel.ErrNotFound
	}
	s.users = slices.Delete(s.users, idx, idx+1)
	return nil
}

func (s *InMemoryStore) indexLocked(id string) int {
	return slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == id })
}
