package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"backoffice/internal/dashboard/models"
)

// MaxActivities bounds the activity log.
const MaxActivities = 10

// InMemoryStore holds the counters and the activity log, most recent first.
type InMemoryStore struct {
	mu          sync.RWMutex
	stats       models.Stats
	lastUpdated time.Time
	activities  []models.Activity
}

func NewInMemoryStore(stats models.Stats, lastUpdated time.Time, activities ...models.Activity) *InMemoryStore {
	if len(activities) > MaxActivities {
		activities = activities[:MaxActivities]
	}
	return &InMemoryStore{
		stats:       stats,
		lastUpdated: lastUpdated,
		activities:  slices.Clone(activities),
	}
}

func (s *InMemoryStore) Stats(_ context.Context) (models.Stats, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.lastUpdated, nil
}

// UpdateStats replaces the counters with fn's result and stamps at.
func (s *InMemoryStore) UpdateStats(_ context.Context, at time.Time, fn func(models.Stats) models.Stats) (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = fn(s.stats)
	s.lastUpdated = at
	return s.stats, nil
}

// PrependActivity inserts a at the head and drops entries past MaxActivities.
func (s *InMemoryStore) PrependActivity(_ context.Context, a models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = slices.Insert(s.activities, 0, a)
	if len(s.activities) > MaxActivities {
		clear(s.activities[MaxActivities:])
		s.activities = s.activities[:MaxActivities]
	}
	return nil
}

func (s *InMemoryStore) Activities(_ context.Context) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.activities), nil
}
