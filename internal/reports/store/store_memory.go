package store

import (
	"context"
	"slices"
	"sync"

	"backoffice/internal/reports/models"
	"backoffice/pkg/platform/sentinel"
)

// InMemoryStore keeps reports most recent first.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports []models.Report
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Prepend(_ context.Context, r models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = slices.Insert(s.reports, 0, r)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, sentinel.ErrNotFound
	}
	r := s.reports[idx]
	return &r, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return sentinel.ErrNotFound
	}
	s.reports = slices.Delete(s.reports, idx, idx+1)
	return nil
}

func (s *InMemoryStore) indexLocked(id string) int {
	return slices.IndexFunc(s.reports, func(r models.Report) bool { return r.ID == id })
}
