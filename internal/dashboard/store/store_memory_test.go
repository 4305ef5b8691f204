package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/dashboard/models"
)

func TestPrependActivityTrims(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(models.SeedStats(), time.Time{})

	for i := 1; i <= 15; i++ {
		require.NoError(t, s.PrependActivity(ctx, models.Activity{ID: fmt.Sprint(i), Type: models.ActivityLogin}))

		got, err := s.Activities(ctx)
		require.NoError(t, err)
		assert.Len(t, got, min(i, MaxActivities))
		assert.Equal(t, fmt.Sprint(i), got[0].ID, "newest entry first")
	}

	got, _ := s.Activities(ctx)
	assert.Equal(t, "6", got[MaxActivities-1].ID)
}

func TestSeedLongerThanCap(t *testing.T) {
	seed := make([]models.Activity, 12)
	for i := range seed {
		seed[i].ID = fmt.Sprint(i)
	}
	s := NewInMemoryStore(models.Stats{}, time.Time{}, seed...)
	got, _ := s.Activities(context.Background())
	assert.Len(t, got, MaxActivities)
	assert.Equal(t, "0", got[0].ID)
}

func TestUpdateStats(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryStore(models.SeedStats(), time.Time{})

	out, err := s.UpdateStats(ctx, at, func(st models.Stats) models.Stats {
		st.TotalUsers++
		return st
	})
	require.NoError(t, err)
	assert.Equal(t, 1248, out.TotalUsers)

	stats, updated, _ := s.Stats(ctx)
	assert.Equal(t, out, stats)
	assert.Equal(t, at, updated)
}

func TestActivitiesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(models.Stats{}, time.Time{}, models.SeedActivity()...)
	got, _ := s.Activities(ctx)
	got[0].Message = "mutated"
	again, _ := s.Activities(ctx)
	assert.Equal(t, "New user registered", again[0].Message)
}
