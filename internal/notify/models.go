package notify

import "time"

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindPending Kind = "pending"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo, KindPending:
		return true
	}
	return false
}

// Notification is one transient user-facing message. A zero Lifetime means
// it stays until dismissed.
type Notification struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Message   string        `json:"message"`
	Lifetime  time.Duration `json:"lifetime"`
	CreatedAt time.Time     `json:"created_at"`
}

// Manual reports whether the notification only leaves on dismissal.
func (n Notification) Manual() bool {
	return n.Lifetime == 0
}

// EventType tells observers whether a notification entered or left the queue.
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
)

// Event is published to subscribers and sinks on every queue change.
type Event struct {
	Type         EventType    `json:"type"`
	Notification Notification `json:"notification"`
	At           time.Time    `json:"at"`
}
