package model

import (
	"fmt"
	"strings"
	"time"
)

// PrefixEvent is the database key prefix for events.
const PrefixEvent = "event"

// Layouts used by the event's string fields.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// RepeatType is the recurrence tag of an event.
type RepeatType string

// Repeat types.
const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// RepeatInfo describes how an event repeats. It is metadata only: a stored
// Event is always one concrete occurrence.
type RepeatInfo struct {
	Type     RepeatType `json:"type"`
	Interval int        `json:"interval"`
	EndDate  string     `json:"endDate,omitempty"`
}

// Event is a single calendar occurrence.
type Event struct {
	ID               string     `json:"id,omitempty"`
	Title            string     `json:"title"`
	Date             string     `json:"date"`
	StartTime        string     `json:"startTime"`
	EndTime          string     `json:"endTime"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Category         string     `json:"category"`
	Repeat           RepeatInfo `json:"repeat"`
	NotificationTime int        `json:"notificationTime"`
}

// SetKey sets the database key for this event.
func (e *Event) SetKey(key string) {
	e.ID = strings.TrimPrefix(key, PrefixEvent+":")
}

// GetKey returns the database key for this event.
func (e *Event) GetKey() string {
	return GenerateEventKey(e.ID)
}

// GenerateEventKey generates a database key for an event id.
func GenerateEventKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixEvent, id)
}

// IsDraft returns true if the event has not been saved yet.
func (e *Event) IsDraft() bool {
	return e.ID == ""
}

// IsRepeating returns true if the event carries a repeat rule.
func (e *Event) IsRepeating() bool {
	return e.Repeat.Type != "" && e.Repeat.Type != RepeatNone
}

// Start returns the event start instant in loc. ok is false when Date or
// StartTime cannot be parsed.
func (e *Event) Start(loc *time.Location) (time.Time, bool) {
	return combine(e.Date, e.StartTime, loc)
}

// End returns the event end instant in loc.
func (e *Event) End(loc *time.Location) (time.Time, bool) {
	return combine(e.Date, e.EndTime, loc)
}

func combine(date, clock string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RepeatLabel renders the repeat rule the way the event list shows it,
// e.g. "2주마다 (종료: 2024-12-31)". Empty for non-repeating events.
func (e *Event) RepeatLabel() string {
	if !e.IsRepeating() {
		return ""
	}
	label := fmt.Sprintf("%d%s마다", e.Repeat.Interval, repeatUnit(e.Repeat.Type))
	if e.Repeat.EndDate != "" {
		label += fmt.Sprintf(" (종료: %s)", e.Repeat.EndDate)
	}
	return label
}

func repeatUnit(t RepeatType) string {
	switch t {
	case RepeatDaily:
		return "일"
	case RepeatWeekly:
		return "주"
	case RepeatMonthly:
		return "월"
	case RepeatYearly:
		return "년"
	default:
		return ""
	}
}

// NotificationLabel returns the option label for the event's lead time.
func (e *Event) NotificationLabel() string {
	if label, ok := NotificationOptions[e.NotificationTime]; ok {
		return label
	}
	if e.NotificationTime <= 0 {
		return ""
	}
	return fmt.Sprintf("%d분 전", e.NotificationTime)
}

// ShortID returns the first 8 characters of the id for display.
func (e *Event) ShortID() string {
	if len(e.ID) > 8 {
		return e.ID[:8]
	}
	return e.ID
}

// Categories are the selectable event categories.
var Categories = []string{"업무", "개인", "가족", "기타"}

// NotificationOptions maps selectable lead times in minutes to their labels.
var NotificationOptions = map[int]string{
	1:    "1분 전",
	10:   "10분 전",
	60:   "1시간 전",
	120:  "2시간 전",
	1440: "1일 전",
}

// DefaultNotificationTime is the lead time preselected for new events.
const DefaultNotificationTime = 10

// ValidRepeatTypes returns the valid repeat type options.
func ValidRepeatTypes() []RepeatType {
	return []RepeatType{RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly}
}

// IsValidRepeatType checks if a repeat type is valid. Empty counts as none.
func IsValidRepeatType(t RepeatType) bool {
	if t == "" {
		return true
	}
	for _, valid := range ValidRepeatTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// IsValidCategory reports whether c is one of Categories. Empty is allowed.
func IsValidCategory(c string) bool {
	if c == "" {
		return true
	}
	for _, valid := range Categories {
		if c == valid {
			return true
		}
	}
	return false
}

// NewEvent creates a draft event with default notification and no repeat.
func NewEvent(title, date, start, end string) *Event {
	return &Event{
		Title:            title,
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		Repeat:           RepeatInfo{Type: RepeatNone, Interval: 1},
		NotificationTime: DefaultNotificationTime,
	}
}
