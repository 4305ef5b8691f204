package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ChannelSuite struct {
	suite.Suite
	ch *Channel
}

func TestChannelSuite(t *testing.T) {
	suite.Run(t, new(ChannelSuite))
}

func (s *ChannelSuite) SetupTest() {
	s.ch = New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *ChannelSuite) TearDownTest() {
	s.ch.Close()
}

func (s *ChannelSuite) TestNotify() {
	s.Run("appends in insertion order with unique ids", func() {
		a := s.ch.Success("Saved")
		b := s.ch.Info("Heads up")

		list := s.ch.List()
		s.Require().Len(list, 2)
		s.Equal(a, list[0].ID)
		s.Equal(b, list[1].ID)
		s.NotEqual(a, b)
		s.Equal(KindSuccess, list[0].Kind)
		s.Equal("Saved", list[0].Message)
		s.Equal(DefaultLifetime, list[0].Lifetime)
	})

	s.Run("pending never auto-expires", func() {
		id := s.ch.Pending("Working...")
		n, ok := s.ch.Get(id)
		s.Require().True(ok)
		s.True(n.Manual())
	})

	s.Run("explicit zero lifetime stays until dismissed", func() {
		id := s.ch.Warning("Sticky", 0)
		n, ok := s.ch.Get(id)
		s.Require().True(ok)
		s.True(n.Manual())
	})

	s.Run("error lifetime is raised to the default", func() {
		id := s.ch.Error("Boom", 0)
		n, ok := s.ch.Get(id)
		s.Require().True(ok)
		s.Equal(DefaultLifetime, n.Lifetime)
	})
}

func (s *ChannelSuite) TestExpiry() {
	id := s.ch.Success("Gone soon", 20*time.Millisecond)
	keep := s.ch.Pending("Still here")

	s.Eventually(func() bool {
		_, ok := s.ch.Get(id)
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, ok := s.ch.Get(keep)
	s.True(ok)
}

func (s *ChannelSuite) TestDismiss() {
	s.Run("removes the entry and cancels its timer", func() {
		id := s.ch.Info("Bye", 10*time.Millisecond)
		s.ch.Dismiss(id)
		s.Equal(0, s.ch.Len())

		// a cancelled timer must not remove a later entry
		other := s.ch.Pending("Other")
		time.Sleep(30 * time.Millisecond)
		_, ok := s.ch.Get(other)
		s.True(ok)
		s.ch.Dismiss(other)
	})

	s.Run("unknown id is a no-op", func() {
		s.ch.Success("Keep", 0)
		s.ch.Dismiss("missing")
		s.Equal(1, s.ch.Len())
	})
}

func (s *ChannelSuite) TestListReturnsCopy() {
	s.ch.Success("Original", 0)
	list := s.ch.List()
	list[0].Message = "Mutated"
	s.Equal("Original", s.ch.List()[0].Message)
}

func TestSubscribe(t *testing.T) {
	ch := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer ch.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events := ch.Subscribe(ctx)

	id := ch.Pending("Loading")
	ch.Dismiss(id)

	added := <-events
	removed := <-events
	assert.Equal(t, EventAdded, added.Type)
	assert.Equal(t, id, added.Notification.ID)
	assert.Equal(t, EventRemoved, removed.Type)
	assert.Equal(t, id, removed.Notification.ID)

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 5*time.Millisecond)
}

func TestOutboxDropsWhenFull(t *testing.T) {
	out := make(chan Event, 1)
	ch := New(WithOutbox(out), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer ch.Close()

	ch.Pending("one")
	ch.Pending("two")

	assert.Len(t, out, 1)
	assert.Equal(t, 2, ch.Len())
}
