package reminder

import (
	"sync"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// Center owns the notification banners and the notified set for one process.
// It is safe for concurrent use.
type Center struct {
	mu            sync.Mutex
	notifications []Notification
	notified      NotifiedSet
}

// NewCenter creates an empty Center.
func NewCenter() *Center {
	return &Center{notified: NewNotifiedSet()}
}

// Poll selects the upcoming events at now, appends a banner for each and
// marks them notified. It returns only the banners created by this call, so
// each event id fires at most once per Center.
func (c *Center) Poll(events []model.Event, now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	due := Upcoming(events, now, c.notified)
	fresh := make([]Notification, 0, len(due))
	for _, e := range due {
		n := Notification{ID: e.ID, Message: Message(e)}
		fresh = append(fresh, n)
		c.notified.Add(e.ID)
	}
	c.notifications = append(c.notifications, fresh...)
	return fresh
}

// Remove drops the banner at index. Out of range indexes are ignored.
// The event stays notified.
func (c *Center) Remove(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.notifications) {
		return
	}
	c.notifications = append(c.notifications[:index], c.notifications[index+1:]...)
}

// Notifications returns a copy of the current banners.
func (c *Center) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// Notified returns a copy of the notified set.
func (c *Center) Notified() NotifiedSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(NotifiedSet, len(c.notified))
	for id := range c.notified {
		out.Add(id)
	}
	return out
}

// IsNotified reports whether id has fired.
func (c *Center) IsNotified(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notified.Contains(id)
}

// Restore marks ids as already notified without creating banners, e.g. ids
// persisted by a previous daemon run.
func (c *Center) Restore(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.notified.Add(id)
	}
}
