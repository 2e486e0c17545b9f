// Package overlap detects events whose time slots intersect.
//
// The detector is advisory. It never blocks a save itself; callers decide
// whether to warn or refuse.
package overlap

import (
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// Overlaps reports whether a and b share a date and their [start, end)
// intervals intersect. Events that only touch at a boundary do not overlap.
// Events with malformed times never overlap anything.
func Overlaps(a, b model.Event) bool {
	if a.Date != b.Date {
		return false
	}
	aStart, aEnd, ok := interval(a)
	if !ok {
		return false
	}
	bStart, bEnd, ok := interval(b)
	if !ok {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindOverlapping returns the events that overlap candidate, in input order.
// Events sharing the candidate's ID are skipped, so an edit is never reported
// against its stored version. An unsaved draft has an empty ID and skips only
// events that also lack one.
func FindOverlapping(candidate model.Event, events []model.Event) []model.Event {
	out := make([]model.Event, 0)
	for _, e := range events {
		if e.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate, e) {
			out = append(out, e)
		}
	}
	return out
}

func interval(e model.Event) (time.Time, time.Time, bool) {
	start, ok := e.Start(time.UTC)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := e.End(time.UTC)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
