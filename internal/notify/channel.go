// Package notify is the process-wide notification queue shown to dashboard
// users as toasts. Producers call Notify (or a shorthand) and keep the
// returned id; the channel removes entries when their lifetime elapses or
// when Dismiss is called. Readers only ever receive copies.
package notify

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/platform/metrics"
)

// DefaultLifetime applies when a producer does not pass one.
const DefaultLifetime = 5 * time.Second

const subscriberBuffer = 32

// Channel owns the ordered notification queue.
type Channel struct {
	mu              sync.Mutex
	queue           []Notification
	timers          map[string]*time.Timer
	subscribers     map[int]chan Event
	nextSubscriber  int
	defaultLifetime time.Duration
	outbox          chan<- Event

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Channel)

// WithDefaultLifetime overrides DefaultLifetime. Non-positive values are ignored.
func WithDefaultLifetime(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.defaultLifetime = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Channel) {
		c.metrics = m
	}
}

// WithOutbox forwards every event to out for delivery by a Worker. Sends
// never block; a full outbox drops the event.
func WithOutbox(out chan<- Event) Option {
	return func(c *Channel) {
		c.outbox = out
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		c.now = now
	}
}

// New returns an empty channel.
func New(opts ...Option) *Channel {
	c := &Channel{
		timers:          make(map[string]*time.Timer),
		subscribers:     make(map[int]chan Event),
		defaultLifetime: DefaultLifetime,
		logger:          slog.Default(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify appends a notification and returns its id. Without an explicit
// lifetime the default applies, except for pending notifications which stay
// until dismissed. An explicit zero lifetime also means "until dismissed",
// except for errors: an error always auto-expires so it is never stuck, but
// it is always shown for at least the default lifetime.
func (c *Channel) Notify(kind Kind, message string, lifetime ...time.Duration) string {
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Lifetime:  c.resolveLifetime(kind, lifetime),
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.queue = append(c.queue, n)
	if n.Lifetime > 0 {
		id := n.ID
		c.timers[id] = time.AfterFunc(n.Lifetime, func() { c.expire(id) })
	}
	size := len(c.queue)
	c.publishLocked(Event{Type: EventAdded, Notification: n, At: n.CreatedAt})
	c.mu.Unlock()

	c.metrics.SetNotificationsActive(size)
	return n.ID
}

func (c *Channel) resolveLifetime(kind Kind, lifetime []time.Duration) time.Duration {
	if kind == KindPending {
		return 0
	}
	if len(lifetime) == 0 || lifetime[0] < 0 {
		return c.defaultLifetime
	}
	if kind == KindError && lifetime[0] < c.defaultLifetime {
		return c.defaultLifetime
	}
	return lifetime[0]
}

// Success is Notify(KindSuccess, ...).
func (c *Channel) Success(message string, lifetime ...time.Duration) string {
	return c.Notify(KindSuccess, message, lifetime...)
}

// Error is Notify(KindError, ...).
func (c *Channel) Error(message string, lifetime ...time.Duration) string {
	return c.Notify(KindError, message, lifetime...)
}

// Warning is Notify(KindWarning, ...).
func (c *Channel) Warning(message string, lifetime ...time.Duration) string {
	return c.Notify(KindWarning, message, lifetime...)
}

// Info is Notify(KindInfo, ...).
func (c *Channel) Info(message string, lifetime ...time.Duration) string {
	return c.Notify(KindInfo, message, lifetime...)
}

// Pending shows a notification that stays until dismissed.
func (c *Channel) Pending(message string) string {
	return c.Notify(KindPending, message)
}

// Dismiss removes id immediately. Unknown ids are ignored.
func (c *Channel) Dismiss(id string) {
	c.remove(id, true)
}

func (c *Channel) expire(id string) {
	c.remove(id, false)
}

func (c *Channel) remove(id string, stopTimer bool) {
	c.mu.Lock()
	idx := slices.IndexFunc(c.queue, func(n Notification) bool { return n.ID == id })
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	n := c.queue[idx]
	c.queue = slices.Delete(c.queue, idx, idx+1)
	if t, ok := c.timers[id]; ok {
		if stopTimer {
			t.Stop()
		}
		delete(c.timers, id)
	}
	size := len(c.queue)
	c.publishLocked(Event{Type: EventRemoved, Notification: n, At: c.now()})
	c.mu.Unlock()

	c.metrics.SetNotificationsActive(size)
}

// List returns a copy of the queue in insertion order.
func (c *Channel) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queue)
}

// Get returns the queued notification with id, if any.
func (c *Channel) Get(id string) (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.queue {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

// Len returns the number of queued notifications.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Subscribe streams queue events until ctx is done. Slow subscribers miss
// events rather than stall producers.
func (c *Channel) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	c.mu.Lock()
	key := c.nextSubscriber
	c.nextSubscriber++
	c.subscribers[key] = ch
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subscribers, key)
		close(ch)
		c.mu.Unlock()
	}()
	return ch
}

// Close stops pending expiry timers. The queue stays readable.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}

func (c *Channel) publishLocked(ev Event) {
	for _, sub := range c.subscribers {
		select {
		case sub <- ev:
		default:
			c.logger.Warn("notification subscriber lagging, event dropped",
				"notification_id", ev.Notification.ID)
		}
	}
	if c.outbox == nil {
		return
	}
	select {
	case c.outbox <- ev:
	default:
		c.logger.Warn("notification outbox full, event dropped",
			"notification_id", ev.Notification.ID,
			"event", string(ev.Type))
	}
}
