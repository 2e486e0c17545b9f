package output

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/holiday"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/search"
)

// Weekdays are the grid column headers, Sunday first.
var Weekdays = [dateutil.DaysPerWeek]string{"일", "월", "화", "수", "목", "금", "토"}

const (
	minCellWidth = 6
	maxCellWidth = 18
)

// CalendarOptions controls grid rendering.
type CalendarOptions struct {
	// Notified marks events drawn with a bell.
	Notified reminder.NotifiedSet
	// Today is highlighted when it falls in the grid. Zero disables it.
	Today time.Time
	// Width is the total width available. Zero means DefaultWidth.
	Width int
	Color bool
}

func (o CalendarOptions) cellWidth() int {
	w := o.Width
	if w <= 0 {
		w = DefaultWidth
	}
	cw := (w - (dateutil.DaysPerWeek - 1)) / dateutil.DaysPerWeek
	return min(max(cw, minCellWidth), maxCellWidth)
}

// RenderWeek draws the Sunday-first week holding anchor with each day's
// events and holidays.
func RenderWeek(anchor time.Time, events []model.Event, opts CalendarOptions) string {
	p := newPalette(opts.Color)
	cw := opts.cellWidth()
	weekEvents := search.ByWeek(events, anchor)

	cells := make([][]string, 0, dateutil.DaysPerWeek)
	for _, d := range dateutil.WeekDates(anchor) {
		date := dateutil.FormatDate(d)
		cells = append(cells, dayCell(d.Day(), date, search.EventsOnDate(weekEvents, date), opts, p, cw))
	}

	var b strings.Builder
	b.WriteString(p.title.Render(dateutil.FormatWeek(anchor)))
	b.WriteString("\n")
	b.WriteString(headerRow(cw, p))
	b.WriteString("\n")
	b.WriteString(rule(cw))
	b.WriteString("\n")
	b.WriteString(gridRow(cells, cw))
	b.WriteString("\n")
	return b.String()
}

// RenderMonth draws the month holding anchor as MonthGrid rows.
func RenderMonth(anchor time.Time, events []model.Event, opts CalendarOptions) string {
	p := newPalette(opts.Color)
	cw := opts.cellWidth()
	monthEvents := search.ByMonth(events, anchor)

	var b strings.Builder
	b.WriteString(p.title.Render(dateutil.FormatMonth(anchor)))
	b.WriteString("\n")
	b.WriteString(headerRow(cw, p))
	b.WriteString("\n")
	for _, week := range dateutil.MonthGrid(anchor) {
		b.WriteString(rule(cw))
		b.WriteString("\n")
		cells := make([][]string, dateutil.DaysPerWeek)
		for i, day := range week {
			if day == 0 {
				cells[i] = []string{""}
				continue
			}
			date := dateutil.FormatDate(anchor, day)
			cells[i] = dayCell(day, date, search.EventsForDay(monthEvents, day), opts, p, cw)
		}
		b.WriteString(gridRow(cells, cw))
		b.WriteString("\n")
	}
	return b.String()
}

func dayCell(day int, date string, events []model.Event, opts CalendarOptions, p palette, cw int) []string {
	num := strconv.Itoa(day)
	name, isHoliday := holiday.Name(date)
	switch {
	case !opts.Today.IsZero() && dateutil.FormatDate(opts.Today) == date:
		num = p.today.Render(num)
	case isHoliday:
		num = p.holiday.Render(num)
	}

	lines := []string{num}
	if isHoliday {
		lines = append(lines, p.holiday.Render(truncateWidth(name, cw)))
	}
	for _, e := range events {
		if opts.Notified.Contains(e.ID) {
			lines = append(lines, p.notified.Render(truncateWidth(Bell+e.Title, cw)))
			continue
		}
		lines = append(lines, truncateWidth(e.Title, cw))
	}
	return lines
}

func headerRow(cw int, p palette) string {
	cells := make([][]string, len(Weekdays))
	for i, name := range Weekdays {
		cells[i] = []string{p.bold.Render(name)}
	}
	return gridRow(cells, cw)
}

func rule(cw int) string {
	parts := make([]string, dateutil.DaysPerWeek)
	for i := range parts {
		parts[i] = strings.Repeat("─", cw)
	}
	return strings.Join(parts, "┼")
}

// gridRow lays cells side by side, each padded to cw, separated by a
// vertical bar as tall as the tallest cell.
func gridRow(cells [][]string, cw int) string {
	height := 1
	for _, c := range cells {
		height = max(height, len(c))
	}
	sep := strings.TrimSuffix(strings.Repeat("│\n", height), "\n")
	cell := lipgloss.NewStyle().Width(cw)

	blocks := make([]string, 0, 2*len(cells))
	for i, lines := range cells {
		if i > 0 {
			blocks = append(blocks, sep)
		}
		blocks = append(blocks, cell.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// truncateWidth cuts s to at most w display columns.
func truncateWidth(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > w-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + "…"
}
