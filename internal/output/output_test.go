package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/holiday"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
)

func testEvent(id, title, date, start, end string) model.Event {
	e := model.NewEvent(title, date, start, end)
	e.ID = id
	return *e
}

func newBuffered(format Format) (*Formatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Formatter{Writer: &buf, Format: format, ColorMode: ColorNever}, &buf
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})
	t.Run("never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})
	t.Run("auto non-terminal", func(t *testing.T) {
		f := &Formatter{Writer: &bytes.Buffer{}, ColorMode: ColorAuto}
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterWidthFallback(t *testing.T) {
	f, _ := newBuffered(FormatCLI)
	assert.Equal(t, DefaultWidth, f.Width())
}

func TestParseFormat(t *testing.T) {
	got, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	mode, err := ParseColorMode("never")
	require.NoError(t, err)
	assert.Equal(t, ColorNever, mode)
	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestLeadTime(t *testing.T) {
	e := testEvent("1", "회의", "2024-07-10", "09:00", "10:00")
	assert.Equal(t, "10분 전", LeadTime(e))
	e.NotificationTime = 0
	assert.Equal(t, "없음", LeadTime(e))
	assert.Equal(t, "09:00 - 10:00", TimeRange(e))
}

// =============================================================================
// CLI Tests
// =============================================================================

func TestCLIPrintEvent(t *testing.T) {
	f, buf := newBuffered(FormatCLI)
	c := NewCLIFormatter(f)

	e := testEvent("abcdef123456", "팀 회의", "2024-07-10", "09:00", "10:00")
	e.Location = "회의실 A"
	e.Category = "업무"
	e.Repeat = model.RepeatInfo{Type: model.RepeatWeekly, Interval: 2, EndDate: "2024-12-31"}
	c.PrintEvent(e, true)

	out := buf.String()
	assert.Contains(t, out, Bell+" 팀 회의")
	assert.Contains(t, out, "(abcdef12)")
	assert.Contains(t, out, "2024-07-10  09:00 - 10:00")
	assert.Contains(t, out, "카테고리: 업무")
	assert.Contains(t, out, "반복: 2주마다 (종료: 2024-12-31)")
	assert.Contains(t, out, "알림: 10분 전")
}

func TestCLIPrintEventList(t *testing.T) {
	f, buf := newBuffered(FormatCLI)
	c := NewCLIFormatter(f)

	c.PrintEventList(nil, nil)
	assert.Equal(t, "검색 결과가 없습니다.\n", buf.String())

	buf.Reset()
	events := []model.Event{
		testEvent("1", "A", "2024-07-10", "09:00", "10:00"),
		testEvent("2", "B", "2024-07-11", "09:00", "10:00"),
	}
	c.PrintEventList(events, reminder.NewNotifiedSet("2"))
	out := buf.String()
	assert.Contains(t, out, "A (1)")
	assert.Contains(t, out, Bell+" B")
	assert.NotContains(t, out, Bell+" A")
}

func TestCLIPrintOverlap(t *testing.T) {
	f, buf := newBuffered(FormatCLI)
	NewCLIFormatter(f).PrintOverlap([]model.Event{testEvent("1", "기존 회의", "2024-07-10", "09:00", "10:00")})

	out := buf.String()
	assert.Contains(t, out, "일정 겹침 경고")
	assert.Contains(t, out, "- 기존 회의 (2024-07-10 09:00 - 10:00)")
}

func TestCLIPrintNotificationsAndHolidays(t *testing.T) {
	f, buf := newBuffered(FormatCLI)
	c := NewCLIFormatter(f)

	c.PrintNotifications(nil)
	assert.Contains(t, buf.String(), "예정된 알림이 없습니다.")

	buf.Reset()
	c.PrintNotifications([]reminder.Notification{{ID: "1", Message: "10분 후 회의 일정이 시작됩니다."}})
	assert.Contains(t, buf.String(), Bell+" 10분 후 회의 일정이 시작됩니다.")

	buf.Reset()
	c.PrintHolidays(holiday.List(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-08-15  광복절\n", buf.String())
}

func TestCLIPrintTableAlignsWideRunes(t *testing.T) {
	f, buf := newBuffered(FormatCLI)
	NewCLIFormatter(f).PrintTable([]string{"NAME", "TYPE"}, []TableRow{
		{Columns: []string{"팀채널", "slack"}},
		{Columns: []string{"ops", "discord"}},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME    TYPE", lines[0])
	assert.Equal(t, "팀채널  slack", lines[2])
	assert.Equal(t, "ops     discord", lines[3])
}

func TestCLIPrintWebhooks(t *testing.T) {
	f, buf := newBuffered(FormatCLI)
	c := NewCLIFormatter(f)

	c.PrintWebhooks(nil)
	assert.Contains(t, buf.String(), "No webhooks configured")

	buf.Reset()
	w := model.NewWebhook("team", model.WebhookTypeSlack, "https://hooks.slack.com/services/x", time.Now())
	c.PrintWebhooks([]*model.Webhook{w})
	assert.Contains(t, buf.String(), "team")
	assert.Contains(t, buf.String(), "enabled")
}

// =============================================================================
// Calendar Tests
// =============================================================================

func TestRenderWeek(t *testing.T) {
	anchor := time.Date(2024, 7, 10, 0, 0, 0, 0, time.Local)
	events := []model.Event{
		testEvent("1", "주간 회의", "2024-07-10", "09:00", "10:00"),
		testEvent("2", "알림된 일정", "2024-07-13", "09:00", "10:00"),
		testEvent("3", "다음 주", "2024-07-14", "09:00", "10:00"),
	}

	out := RenderWeek(anchor, events, CalendarOptions{Notified: reminder.NewNotifiedSet("2"), Width: 140})

	assert.True(t, strings.HasPrefix(out, "2024년 7월 2주\n"))
	assert.Contains(t, out, "일")
	assert.Contains(t, out, "토")
	assert.Contains(t, out, "주간 회의")
	assert.Contains(t, out, Bell+"알림된 일정")
	assert.NotContains(t, out, "다음 주")
	for _, day := range []string{"7", "8", "9", "10", "11", "12", "13"} {
		assert.Contains(t, out, day)
	}
}

func TestRenderMonth(t *testing.T) {
	anchor := time.Date(2024, 8, 20, 0, 0, 0, 0, time.Local)
	events := []model.Event{
		testEvent("1", "휴가", "2024-08-16", "09:00", "18:00"),
		testEvent("2", "7월 일정", "2024-07-31", "09:00", "10:00"),
	}

	out := RenderMonth(anchor, events, CalendarOptions{Width: 120})

	assert.True(t, strings.HasPrefix(out, "2024년 8월\n"))
	assert.Contains(t, out, "광복절")
	assert.Contains(t, out, "휴가")
	assert.NotContains(t, out, "7월 일정")
	rules := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "─") {
			rules++
		}
	}
	assert.Equal(t, 5, rules, "one rule per week row")
	assert.Contains(t, out, "31")
}

func TestCalendarCellWidth(t *testing.T) {
	assert.Equal(t, minCellWidth, CalendarOptions{Width: 20}.cellWidth())
	assert.Equal(t, maxCellWidth, CalendarOptions{Width: 400}.cellWidth())
	assert.Equal(t, 10, CalendarOptions{}.cellWidth())
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "short", truncateWidth("short", 10))
	assert.Equal(t, "회의…", truncateWidth("회의실 예약", 5))
	assert.LessOrEqual(t, lipgloss.Width(truncateWidth("abcdefghijkl", 6)), 6)
}

// =============================================================================
// JSON and plain Tests
// =============================================================================

func TestJSONPrintEvents(t *testing.T) {
	f, buf := newBuffered(FormatJSON)
	events := []model.Event{
		testEvent("1", "A", "2024-07-10", "09:00", "10:00"),
		testEvent("2", "B", "2024-07-11", "09:00", "10:00"),
	}
	require.NoError(t, NewJSONFormatter(f).PrintEvents(EventsResponse{View: "week"}, events, reminder.NewNotifiedSet("2")))

	var resp struct {
		View   string `json:"view"`
		Count  int    `json:"count"`
		Events []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Notified bool   `json:"notified"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "week", resp.View)
	assert.Equal(t, 2, resp.Count)
	assert.False(t, resp.Events[0].Notified)
	assert.True(t, resp.Events[1].Notified)
	assert.Equal(t, "B", resp.Events[1].Title)
}

func TestJSONPrintEventWithOverlap(t *testing.T) {
	f, buf := newBuffered(FormatJSON)
	e := testEvent("1", "A", "2024-07-10", "09:00", "10:00")
	other := testEvent("2", "B", "2024-07-10", "09:30", "10:30")
	require.NoError(t, NewJSONFormatter(f).PrintEvent("created", e, []model.Event{other}))

	var resp EventResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, "A", resp.Event.Title)
	require.Len(t, resp.Overlapping, 1)
	assert.Equal(t, "2", resp.Overlapping[0].ID)
}

func TestJSONPrintWebhooksMasksURL(t *testing.T) {
	f, buf := newBuffered(FormatJSON)
	w := model.NewWebhook("team", model.WebhookTypeDiscord, "https://discord.com/api/webhooks/123456/secret-token-value", time.Now())
	require.NoError(t, NewJSONFormatter(f).PrintWebhooks([]*model.Webhook{w}))
	assert.NotContains(t, buf.String(), "secret-token-value")
}

func TestPlainPrintEvents(t *testing.T) {
	f, buf := newBuffered(FormatPlain)
	e := testEvent("1", "multi\tline\ntitle", "2024-07-10", "09:00", "10:00")
	NewPlainFormatter(f).PrintEvents([]model.Event{e}, reminder.NewNotifiedSet("1"))

	assert.Equal(t, "1\t2024-07-10\t09:00\t10:00\tmulti line title\t\tnotified\n", buf.String())
}
