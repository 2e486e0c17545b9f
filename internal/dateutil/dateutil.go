// Package dateutil provides the calendar arithmetic and fixed-format date
// rendering shared by the week and month views.
//
// All values are naive local dates: results keep the location of the input
// and no timezone conversion is performed.
package dateutil

import (
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// DaysPerWeek is the number of columns in a week row.
const DaysPerWeek = 7

// Week is one row of a month grid. Each column holds the day of month for
// that weekday (Sunday first), or 0 when the cell lies outside the month.
type Week [DaysPerWeek]int

// DaysInMonth returns the number of days in a 1-indexed month. Months outside
// 1-12 roll over into neighbouring years the way time.Date normalizes them:
// month 13 is January of the next year and month 0 is December of the
// previous year.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last millisecond of the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
	return EndOfDay(last)
}

// WeekDates returns the seven midnights of the Sunday-to-Saturday week that
// contains date.
func WeekDates(date time.Time) []time.Time {
	sunday := StartOfDay(date).AddDate(0, 0, -int(date.Weekday()))
	dates := make([]time.Time, DaysPerWeek)
	for i := range dates {
		dates[i] = sunday.AddDate(0, 0, i)
	}
	return dates
}

// MonthGrid lays out the month containing date as week rows. There is exactly
// one row for each Sunday-first week that overlaps the month.
func MonthGrid(date time.Time) []Week {
	first := StartOfMonth(date)
	days := DaysInMonth(first.Year(), int(first.Month()))
	offset := int(first.Weekday())

	rows := (offset + days + DaysPerWeek - 1) / DaysPerWeek
	grid := make([]Week, rows)
	for day := 1; day <= days; day++ {
		cell := offset + day - 1
		grid[cell/DaysPerWeek][cell%DaysPerWeek] = day
	}
	return grid
}

// WeekOfMonth returns the 1-indexed MonthGrid row that holds date.
func WeekOfMonth(date time.Time) int {
	offset := int(StartOfMonth(date).Weekday())
	return (offset+date.Day()-1)/DaysPerWeek + 1
}

// IsInRange reports whether start <= date <= end. The comparison uses the
// full timestamp, so callers that want whole-day inclusion must pass an end
// normalized with EndOfDay.
func IsInRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(model.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseClock parses an HH:MM string and returns the offset from midnight.
func ParseClock(s string) (time.Duration, bool) {
	t, err := time.Parse(model.ClockLayout, s)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// Combine joins a YYYY-MM-DD date and an HH:MM clock into an instant in loc.
func Combine(date, clock string, loc *time.Location) (time.Time, bool) {
	day, ok := ParseDate(date, loc)
	if !ok {
		return time.Time{}, false
	}
	offset, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), true
}
