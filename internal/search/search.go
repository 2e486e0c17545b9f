// Package search derives the visible event list from a text query and a week
// or month window. All functions are read-only over their input and return
// results in input order.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// ViewMode selects the date window applied by Filtered.
type ViewMode string

const (
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
	// ViewAll applies no date window.
	ViewAll ViewMode = "all"
)

// ViewModes lists the modes accepted by ParseViewMode.
var ViewModes = []ViewMode{ViewWeek, ViewMonth, ViewAll}

// ParseViewMode converts user input into a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	case ViewAll, "":
		return ViewAll, nil
	}
	return "", fmt.Errorf("unknown view %q (use week, month or all)", s)
}

// MatchesQuery reports whether term is empty or occurs, ignoring case, in the
// event's title, description or location.
func MatchesQuery(e model.Event, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(e.Description), needle) ||
		strings.Contains(strings.ToLower(e.Location), needle)
}

// Search returns the events matching term.
func Search(events []model.Event, term string) []model.Event {
	return filter(events, func(e model.Event) bool {
		return MatchesQuery(e, term)
	})
}

// ByRange returns the events whose date, taken as midnight in start's
// location, lies in [start, end]. Events with an unparseable date never match.
func ByRange(events []model.Event, start, end time.Time) []model.Event {
	return filter(events, func(e model.Event) bool {
		d, ok := dateutil.ParseDate(e.Date, start.Location())
		return ok && dateutil.IsInRange(d, start, end)
	})
}

// ByWeek returns the events in the Sunday-to-Saturday week holding anchor.
func ByWeek(events []model.Event, anchor time.Time) []model.Event {
	start, end := WeekBounds(anchor)
	return ByRange(events, start, end)
}

// ByMonth returns the events in the calendar month holding anchor.
func ByMonth(events []model.Event, anchor time.Time) []model.Event {
	start, end := MonthBounds(anchor)
	return ByRange(events, start, end)
}

// WeekBounds returns the start of Sunday and the end of Saturday for the
// week holding anchor.
func WeekBounds(anchor time.Time) (time.Time, time.Time) {
	dates := dateutil.WeekDates(anchor)
	return dateutil.StartOfDay(dates[0]), dateutil.EndOfDay(dates[len(dates)-1])
}

// MonthBounds returns the start of the first and the end of the last day of
// the month holding anchor.
func MonthBounds(anchor time.Time) (time.Time, time.Time) {
	return dateutil.StartOfMonth(anchor), dateutil.EndOfMonth(anchor)
}

// Filtered applies the text query and then the view's date window. Any view
// other than week or month leaves the query result unfiltered by date.
func Filtered(events []model.Event, term string, anchor time.Time, view ViewMode) []model.Event {
	matched := Search(events, term)
	switch view {
	case ViewWeek:
		return ByWeek(matched, anchor)
	case ViewMonth:
		return ByMonth(matched, anchor)
	default:
		return matched
	}
}

// EventsForDay returns the events whose date has the given day of month.
// Callers pass an already month-filtered list.
func EventsForDay(events []model.Event, day int) []model.Event {
	return filter(events, func(e model.Event) bool {
		d, ok := dateutil.ParseDate(e.Date, time.UTC)
		return ok && d.Day() == day
	})
}

// EventsOnDate returns the events scheduled on the YYYY-MM-DD date.
func EventsOnDate(events []model.Event, date string) []model.Event {
	return filter(events, func(e model.Event) bool {
		return e.Date == date
	})
}

func filter(events []model.Event, keep func(model.Event) bool) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
