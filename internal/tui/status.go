package tui

import (
	"strings"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
)

// BannerComponent shows the pending in-app notifications, newest last.
type BannerComponent struct {
	Notifications []reminder.Notification
	Width         int
}

func (bc *BannerComponent) View() string {
	if len(bc.Notifications) == 0 {
		return ""
	}
	lines := make([]string, len(bc.Notifications))
	for i, n := range bc.Notifications {
		lines[i] = StyleWarning.Render(output.Bell + " " + n.Message)
	}
	return StyleBannerBox.Width(boxWidth(bc.Width)).Render(strings.Join(lines, "\n"))
}

// EventListComponent lists the filtered events with a cursor.
type EventListComponent struct {
	Events   []model.Event
	Notified reminder.NotifiedSet
	Cursor   int
	Width    int
}

func (lc *EventListComponent) View() string {
	if len(lc.Events) == 0 {
		return StyleListBox.Width(boxWidth(lc.Width)).Render(StyleSubtitle.Render("검색 결과가 없습니다."))
	}

	var b strings.Builder
	for i, e := range lc.Events {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lc.renderRow(i, e))
	}
	if e, ok := lc.selected(); ok {
		b.WriteString("\n\n")
		b.WriteString(renderDetail(e))
	}
	return StyleListBox.Width(boxWidth(lc.Width)).Render(b.String())
}

func (lc *EventListComponent) selected() (model.Event, bool) {
	if lc.Cursor < 0 || lc.Cursor >= len(lc.Events) {
		return model.Event{}, false
	}
	return lc.Events[lc.Cursor], true
}

func (lc *EventListComponent) renderRow(i int, e model.Event) string {
	prefix := "  "
	if i == lc.Cursor {
		prefix = "> "
	}
	row := e.Date + " " + output.TimeRange(e) + "  " + e.Title
	switch {
	case lc.Notified.Contains(e.ID):
		return prefix + StyleNotified.Render(output.Bell+" "+row)
	case i == lc.Cursor:
		return prefix + StyleSelected.Render(row)
	default:
		return prefix + row
	}
}

func renderDetail(e model.Event) string {
	lines := []string{}
	if e.Description != "" {
		lines = append(lines, e.Description)
	}
	if e.Location != "" {
		lines = append(lines, e.Location)
	}
	if e.Category != "" {
		lines = append(lines, "카테고리: "+e.Category)
	}
	if label := e.RepeatLabel(); label != "" {
		lines = append(lines, "반복: "+label)
	}
	lines = append(lines, "알림: "+output.LeadTime(e))
	return StyleSubtitle.Render(strings.Join(lines, "\n"))
}

func boxWidth(width int) int {
	return max(width-4, 20)
}

type helpEntry struct{ key, desc string }

var helpEntries = []helpEntry{
	{"←/→", "prev/next"},
	{"v", "week/month"},
	{"t", "today"},
	{"/", "search"},
	{"↑/↓", "select"},
	{"x", "dismiss"},
	{"r", "refresh"},
	{"q", "quit"},
}

// HelpBar renders the key hints.
func HelpBar() string {
	parts := make([]string, len(helpEntries))
	for i, h := range helpEntries {
		parts[i] = StyleHelpKey.Render(h.key) + " " + StyleHelpDesc.Render(h.desc)
	}
	return StyleHelp.Render(strings.Join(parts, "  "))
}
