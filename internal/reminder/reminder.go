// Package reminder selects events whose notification window has opened and
// renders the banner text for them.
package reminder

import (
	"fmt"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// NotifiedSet holds the ids of events that already fired in this process.
type NotifiedSet map[string]struct{}

// NewNotifiedSet returns a set seeded with ids.
func NewNotifiedSet(ids ...string) NotifiedSet {
	s := make(NotifiedSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports whether id has been notified. A nil set contains nothing.
func (s NotifiedSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks id as notified.
func (s NotifiedSet) Add(id string) {
	s[id] = struct{}{}
}

// Len returns the number of notified ids.
func (s NotifiedSet) Len() int {
	return len(s)
}

// Notification is an in-memory banner for one event.
type Notification struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// DueNow reports whether now lies in [start - lead, start) for an event with
// a positive lead time. The event's date and start time are read in now's
// location. Once the event has started it is no longer due.
func DueNow(e model.Event, now time.Time) bool {
	if e.NotificationTime <= 0 {
		return false
	}
	start, ok := e.Start(now.Location())
	if !ok {
		return false
	}
	opens := start.Add(-time.Duration(e.NotificationTime) * time.Minute)
	return !now.Before(opens) && now.Before(start)
}

// Upcoming returns the due events whose id is not in notified, in input
// order. notified is not modified; the caller records the returned ids.
func Upcoming(events []model.Event, now time.Time, notified NotifiedSet) []model.Event {
	out := make([]model.Event, 0)
	for _, e := range events {
		if DueNow(e, now) && !notified.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Message renders the banner text for e.
func Message(e model.Event) string {
	return fmt.Sprintf("%d분 후 %s 일정이 시작됩니다.", e.NotificationTime, e.Title)
}
