package model

import (
	"time"
)

// NotificationType defines the type of notification.
type NotificationType string

// Notification types.
const (
	NotifyEvent NotificationType = "event"
	NotifyTest  NotificationType = "test"
)

// Notification is an outbound message delivered to webhooks.
type Notification struct {
	Type      NotificationType  `json:"type"`
	EventID   string            `json:"event_id,omitempty"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Color     int               `json:"color,omitempty"` // Hex color for embeds
}

// NewNotification creates a new notification stamped at now.
func NewNotification(t NotificationType, title, message string, now time.Time) *Notification {
	return &Notification{
		Type:      t,
		Title:     title,
		Message:   message,
		Fields:    make(map[string]string),
		Timestamp: now,
	}
}

// WithField adds a field to the notification.
func (n *Notification) WithField(key, value string) *Notification {
	if value == "" {
		return n
	}
	if n.Fields == nil {
		n.Fields = make(map[string]string)
	}
	n.Fields[key] = value
	return n
}

// WithColor sets the embed color. Zero keeps the type's default.
func (n *Notification) WithColor(color int) *Notification {
	n.Color = color
	return n
}

// Notification colors (Discord-compatible hex values).
const (
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x5865F2 // Blurple
	ColorPrimary = 0x3498DB // Blue
	ColorGreen   = 0x57F287
	ColorFuchsia = 0xEB459E
)

// CategoryColor returns the embed color of an event category, or 0 to keep
// the type's default.
func CategoryColor(category string) int {
	switch category {
	case "개인":
		return ColorGreen
	case "가족":
		return ColorFuchsia
	default:
		return 0
	}
}

// DefaultColorForType returns the default color for a notification type.
func DefaultColorForType(t NotificationType) int {
	switch t {
	case NotifyEvent:
		return ColorWarning
	case NotifyTest:
		return ColorPrimary
	default:
		return ColorInfo
	}
}

// TypeLabel returns a human-readable label for the notification type.
func (n *Notification) TypeLabel() string {
	switch n.Type {
	case NotifyEvent:
		return "일정 알림"
	case NotifyTest:
		return "테스트 알림"
	default:
		return "알림"
	}
}
