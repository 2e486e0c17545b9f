package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

var seoul = time.FixedZone("KST", 9*60*60)

func calendar(lines ...string) string {
	body := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//test//EN"}, lines...)
	body = append(body, "END:VCALENDAR", "")
	return strings.Join(body, "\r\n")
}

func TestImport(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:standup@example.com",
		"DTSTAMP:20240701T000000Z",
		"DTSTART:20240701T010000Z",
		"DTEND:20240701T013000Z",
		"SUMMARY:스탠드업",
		"LOCATION:회의실 A",
		"CATEGORIES:업무",
		"RRULE:FREQ=WEEKLY;INTERVAL=1;UNTIL=20241231T235959Z",
		"BEGIN:VALARM",
		"ACTION:DISPLAY",
		"TRIGGER:-PT1H",
		"END:VALARM",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:holiday@example.com",
		"DTSTAMP:20240701T000000Z",
		"DTSTART;VALUE=DATE:20240815",
		"DTEND;VALUE=DATE:20240816",
		"SUMMARY:광복절",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:untitled@example.com",
		"DTSTAMP:20240701T000000Z",
		"DTSTART:20240702T010000Z",
		"END:VEVENT",
	)

	res, err := Import(strings.NewReader(data), seoul)
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "untitled@example.com", res.Skipped[0].UID)

	standup := res.Events[0]
	assert.Empty(t, standup.ID)
	assert.Equal(t, "스탠드업", standup.Title)
	assert.Equal(t, "2024-07-01", standup.Date)
	assert.Equal(t, "10:00", standup.StartTime)
	assert.Equal(t, "10:30", standup.EndTime)
	assert.Equal(t, "회의실 A", standup.Location)
	assert.Equal(t, "업무", standup.Category)
	assert.Equal(t, model.RepeatInfo{Type: model.RepeatWeekly, Interval: 1, EndDate: "2024-12-31"}, standup.Repeat)
	assert.Equal(t, 60, standup.NotificationTime)

	allDay := res.Events[1]
	assert.Equal(t, "2024-08-15", allDay.Date)
	assert.Equal(t, "00:00", allDay.StartTime)
	assert.Equal(t, "23:59", allDay.EndTime)
	assert.Equal(t, model.DefaultNotificationTime, allDay.NotificationTime)
	assert.False(t, allDay.IsRepeating())
}

func TestImport_MultiDayClampsToStartDate(t *testing.T) {
	data := calendar(
		"BEGIN:VEVENT",
		"UID:trip@example.com",
		"DTSTAMP:20240701T000000Z",
		"DTSTART:20240701T000000Z",
		"DTEND:20240703T000000Z",
		"SUMMARY:출장",
		"END:VEVENT",
	)
	res, err := Import(strings.NewReader(data), seoul)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "09:00", res.Events[0].StartTime)
	assert.Equal(t, "23:59", res.Events[0].EndTime)
}

func TestImport_Malformed(t *testing.T) {
	_, err := Import(strings.NewReader("not a calendar"), seoul)
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	events := []model.Event{
		{
			ID:               "1",
			Title:            "팀 회의",
			Date:             "2024-07-01",
			StartTime:        "10:00",
			EndTime:          "11:00",
			Description:      "주간 회의",
			Location:         "회의실 A",
			Category:         "업무",
			Repeat:           model.RepeatInfo{Type: model.RepeatWeekly, Interval: 2, EndDate: "2024-12-31"},
			NotificationTime: 10,
		},
		{
			ID:               "2",
			Title:            "점심",
			Date:             "2024-07-02",
			StartTime:        "12:00",
			EndTime:          "13:00",
			Repeat:           model.RepeatInfo{Type: model.RepeatNone, Interval: 1},
			NotificationTime: 1440,
		},
		{ID: "bad", Title: "broken", Date: "2024-13-45", StartTime: "10:00", EndTime: "11:00"},
	}

	var buf bytes.Buffer
	n, err := Export(&buf, events, seoul, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, "UID:1@eventcal")
	assert.Contains(t, out, "DTSTART:20240701T010000Z")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;INTERVAL=2;UNTIL=20241231T235959Z")
	assert.Contains(t, out, "TRIGGER:-PT10M")
	assert.Contains(t, out, "TRIGGER:-P1D")
	assert.NotContains(t, out, "broken")

	res, err := Import(strings.NewReader(out), seoul)
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	for i, got := range res.Events {
		want := events[i]
		want.ID = ""
		assert.Equal(t, want, got)
	}
}

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"-PT10M", 10, true},
		{"-PT1H", 60, true},
		{"-PT1H30M", 90, true},
		{"-P1D", 1440, true},
		{"-P1W", 10080, true},
		{"-pt2h", 120, true},
		{"PT10M", 0, false},
		{"-PT0M", 0, false},
		{"20240701T000000Z", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTrigger(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrigger(t *testing.T) {
	assert.Equal(t, "-PT10M", Trigger(10))
	assert.Equal(t, "-PT2H", Trigger(120))
	assert.Equal(t, "-P1D", Trigger(1440))
}
