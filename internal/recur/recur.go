// Package recur materializes the concrete occurrences of repeating events.
//
// Stored events carry their repeat rule as metadata only. Views that want to
// show every occurrence expand the list here for a bounded window; the
// result is a plain event list that the search, overlap and reminder
// packages treat like any other.
package recur

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// MaxOccurrences caps the occurrences produced for one event per call.
const MaxOccurrences = 1000

// OccurrenceSep separates the base event id from the occurrence date.
const OccurrenceSep = "@"

var frequencies = map[model.RepeatType]rrule.Frequency{
	model.RepeatDaily:   rrule.DAILY,
	model.RepeatWeekly:  rrule.WEEKLY,
	model.RepeatMonthly: rrule.MONTHLY,
	model.RepeatYearly:  rrule.YEARLY,
}

// Option builds the rrule options for info starting at dtstart. It returns
// false when info does not describe a repeating rule.
func Option(info model.RepeatInfo, dtstart time.Time) (rrule.ROption, bool) {
	freq, ok := frequencies[info.Type]
	if !ok {
		return rrule.ROption{}, false
	}
	interval := info.Interval
	if interval < 1 {
		interval = 1
	}
	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  dtstart,
	}
	if info.EndDate != "" {
		if until, err := time.ParseInLocation(model.DateLayout, info.EndDate, dtstart.Location()); err == nil {
			opt.Until = until.Add(24*time.Hour - time.Second)
		}
	}
	return opt, true
}

// RRule renders info as an iCalendar RRULE value such as
// "FREQ=WEEKLY;INTERVAL=2;UNTIL=20241231T235959Z". It returns "" for events
// that do not repeat.
func RRule(info model.RepeatInfo) string {
	opt, ok := Option(info, time.Time{})
	if !ok {
		return ""
	}
	if !opt.Until.IsZero() {
		opt.Until = opt.Until.UTC()
	}
	return opt.RRuleString()
}

// ParseRRule converts an iCalendar RRULE value back into RepeatInfo.
// Frequencies finer than daily are rejected; BY* parts are dropped.
func ParseRRule(value string) (model.RepeatInfo, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "RRULE:")
	if value == "" {
		return model.RepeatInfo{Type: model.RepeatNone, Interval: 1}, nil
	}
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return model.RepeatInfo{}, fmt.Errorf("parse rrule %q: %w", value, err)
	}

	info := model.RepeatInfo{Interval: opt.Interval}
	if info.Interval < 1 {
		info.Interval = 1
	}
	for t, f := range frequencies {
		if f == opt.Freq {
			info.Type = t
		}
	}
	if info.Type == "" {
		return model.RepeatInfo{}, fmt.Errorf("unsupported frequency %s", opt.Freq)
	}
	if !opt.Until.IsZero() {
		info.EndDate = opt.Until.Format(model.DateLayout)
	}
	return info, nil
}

// Expand returns the occurrences of e whose start lies in [start, end].
// Event dates and times are wall-clock values, so the window is compared by
// its wall clock as well. A non-repeating event is returned unchanged when
// its date is in the window. Occurrence ids are "<id>@<date>".
func Expand(e model.Event, start, end time.Time) []model.Event {
	out := make([]model.Event, 0)
	start, end = wall(start), wall(end)

	first, ok := e.Start(time.UTC)
	if !ok {
		return out
	}
	opt, repeating := Option(e.Repeat, first)
	if !repeating {
		day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
		if !day.Before(dayOf(start)) && !day.After(end) {
			out = append(out, e)
		}
		return out
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return out
	}
	for i, occ := range rule.Between(start, end, true) {
		if i == MaxOccurrences {
			break
		}
		out = append(out, occurrence(e, occ))
	}
	return out
}

// ExpandAll expands every event in events for the window, keeping the input
// order of the base events.
func ExpandAll(events []model.Event, start, end time.Time) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		out = append(out, Expand(e, start, end)...)
	}
	return out
}

// OccurrenceID returns the id of the occurrence of base on date.
func OccurrenceID(base, date string) string {
	if base == "" {
		return ""
	}
	return base + OccurrenceSep + date
}

// BaseID strips the occurrence date from id. Ids without one are returned
// as is.
func BaseID(id string) string {
	if i := strings.Index(id, OccurrenceSep); i >= 0 {
		return id[:i]
	}
	return id
}

func occurrence(e model.Event, start time.Time) model.Event {
	occ := e
	occ.Date = start.Format(model.DateLayout)
	occ.ID = OccurrenceID(e.ID, occ.Date)
	return occ
}

func wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
