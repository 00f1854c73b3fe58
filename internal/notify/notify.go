// Package notify is the toast queue shown in the app footer.
package notify

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Kind selects the toast style.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// Lifetime is how long a toast stays before it is dismissed automatically.
const Lifetime = 5 * time.Second

// Notification is one toast.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Kind      Kind
	Timestamp time.Time
}

// Queue holds active notifications, oldest first.
type Queue struct {
	items []Notification
	now   func() time.Time
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Push adds a toast and returns it. An empty kind means info.
func (q *Queue) Push(title, message string, kind Kind) Notification {
	if kind == "" {
		kind = KindInfo
	}
	n := Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Kind:      kind,
		Timestamp: q.now(),
	}
	q.items = append(q.items, n)
	return n
}

// Remove drops the toast with id. Unknown ids are ignored, so a late
// auto-dismiss after a manual one is harmless.
func (q *Queue) Remove(id string) bool {
	i := slices.IndexFunc(q.items, func(n Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return true
}

// DismissNewest removes the most recent toast.
func (q *Queue) DismissNewest() bool {
	if len(q.items) == 0 {
		return false
	}
	q.items = q.items[:len(q.items)-1]
	return true
}

// Expire removes toasts older than Lifetime at now.
func (q *Queue) Expire(now time.Time) {
	q.items = slices.DeleteFunc(q.items, func(n Notification) bool {
		return now.Sub(n.Timestamp) >= Lifetime
	})
}

// Items returns the active toasts, oldest first.
func (q *Queue) Items() []Notification {
	return slices.Clone(q.items)
}

// Len returns the number of active toasts.
func (q *Queue) Len() int {
	return len(q.items)
}
