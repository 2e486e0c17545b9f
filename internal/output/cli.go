package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/holiday"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
)

var (
	colorPrimary  = lipgloss.Color("#7C3AED")
	colorMuted    = lipgloss.Color("#6B7280")
	colorWarning  = lipgloss.Color("#F59E0B")
	colorError    = lipgloss.Color("#EF4444")
	colorSuccess  = lipgloss.Color("#10B981")
	colorHoliday  = lipgloss.Color("#DC2626")
	colorNotified = lipgloss.Color("#B91C1C")
	colorToday    = lipgloss.Color("#2563EB")
)

// palette holds the styles for one render. Without color every style is
// plain so layout stays identical.
type palette struct {
	title, muted, success, warning, err lipgloss.Style
	bold, holiday, notified, today      lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return palette{
		title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		muted:    lipgloss.NewStyle().Foreground(colorMuted),
		success:  lipgloss.NewStyle().Foreground(colorSuccess),
		warning:  lipgloss.NewStyle().Foreground(colorWarning),
		err:      lipgloss.NewStyle().Foreground(colorError),
		bold:     lipgloss.NewStyle().Bold(true),
		holiday:  lipgloss.NewStyle().Foreground(colorHoliday),
		notified: lipgloss.NewStyle().Bold(true).Foreground(colorNotified),
		today:    lipgloss.NewStyle().Bold(true).Foreground(colorToday),
	}
}

// Bell marks events whose notification already fired.
const Bell = "🔔"

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
	p palette
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f, p: newPalette(f.IsColorEnabled())}
}

func (c *CLIFormatter) Title(text string) {
	c.Println(c.p.title.Render(text))
}

func (c *CLIFormatter) Success(text string) {
	c.Println(c.p.success.Render("✓ " + text))
}

func (c *CLIFormatter) Warning(text string) {
	c.Println(c.p.warning.Render("⚠ " + text))
}

func (c *CLIFormatter) Error(text string) {
	c.Println(c.p.err.Render("✗ " + text))
}

func (c *CLIFormatter) Muted(text string) {
	c.Println(c.p.muted.Render(text))
}

// PrintEvent prints one event the way the event list shows it. A notified
// event gets a bell and the highlight color.
func (c *CLIFormatter) PrintEvent(e model.Event, notified bool) {
	title := e.Title
	if notified {
		title = c.p.notified.Render(Bell + " " + title)
	} else {
		title = c.p.bold.Render(title)
	}
	c.Printf("%s %s\n", title, c.p.muted.Render("("+e.ShortID()+")"))
	c.Printf("  %s  %s\n", e.Date, TimeRange(e))
	if e.Description != "" {
		c.Printf("  %s\n", e.Description)
	}
	if e.Location != "" {
		c.Printf("  %s\n", e.Location)
	}
	if e.Category != "" {
		c.Printf("  카테고리: %s\n", e.Category)
	}
	if label := e.RepeatLabel(); label != "" {
		c.Printf("  반복: %s\n", label)
	}
	c.Printf("  알림: %s\n", LeadTime(e))
}

// PrintEventList prints events separated by blank lines.
func (c *CLIFormatter) PrintEventList(events []model.Event, notified reminder.NotifiedSet) {
	if len(events) == 0 {
		c.Muted("검색 결과가 없습니다.")
		return
	}
	for i, e := range events {
		if i > 0 {
			c.Println()
		}
		c.PrintEvent(e, notified.Contains(e.ID))
	}
}

// PrintOverlap warns that candidate collides with the listed events.
func (c *CLIFormatter) PrintOverlap(overlapping []model.Event) {
	c.Warning("일정 겹침 경고")
	c.Println("다음 일정과 겹칩니다:")
	for _, e := range overlapping {
		c.Printf("  - %s (%s %s)\n", e.Title, e.Date, TimeRange(e))
	}
}

// PrintNotifications prints in-app banners.
func (c *CLIFormatter) PrintNotifications(ns []reminder.Notification) {
	if len(ns) == 0 {
		c.Muted("예정된 알림이 없습니다.")
		return
	}
	for _, n := range ns {
		c.Println(c.p.warning.Render(Bell + " " + n.Message))
	}
}

// PrintHolidays prints a month's holidays.
func (c *CLIFormatter) PrintHolidays(hs []holiday.Holiday) {
	if len(hs) == 0 {
		c.Muted("공휴일이 없습니다.")
		return
	}
	for _, h := range hs {
		c.Printf("%s  %s\n", h.Date, c.p.holiday.Render(h.Name))
	}
}

// PrintWebhooks prints configured webhooks as a table.
func (c *CLIFormatter) PrintWebhooks(ws []*model.Webhook) {
	if len(ws) == 0 {
		c.Muted("No webhooks configured. Add one with 'eventcal webhook add'.")
		return
	}
	rows := make([]TableRow, len(ws))
	for i, w := range ws {
		status := "enabled"
		if !w.Enabled {
			status = "disabled"
		}
		if w.LastError != "" {
			status += " (last error)"
		}
		rows[i] = TableRow{Columns: []string{w.Name, w.Type, status, w.MaskedURL()}}
	}
	c.PrintTable([]string{"NAME", "TYPE", "STATUS", "URL"}, rows)
}

// TableRow is one row for PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints rows under headers, padding by display width so wide
// runes line up.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(col))
			}
		}
	}

	c.Println(c.p.bold.Render(strings.TrimRight(joinPadded(headers, widths), " ")))
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	c.Println(strings.Join(seps, "  "))
	for _, row := range rows {
		c.Println(strings.TrimRight(joinPadded(row.Columns, widths), " "))
	}
}

func joinPadded(cols []string, widths []int) string {
	var b strings.Builder
	for i, col := range cols {
		if i >= len(widths) {
			break
		}
		b.WriteString(col)
		b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(col)))
		b.WriteString("  ")
	}
	return b.String()
}

