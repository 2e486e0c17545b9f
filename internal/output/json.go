package output

import (
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/holiday"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// EventOutput is an event plus display-only fields.
type EventOutput struct {
	model.Event
	Notified    bool   `json:"notified"`
	RepeatLabel string `json:"repeatLabel,omitempty"`
}

// NewEventOutputs pairs events with their notified flag.
func NewEventOutputs(events []model.Event, notified reminder.NotifiedSet) []EventOutput {
	out := make([]EventOutput, len(events))
	for i, e := range events {
		out[i] = EventOutput{Event: e, Notified: notified.Contains(e.ID), RepeatLabel: e.RepeatLabel()}
	}
	return out
}

// EventsResponse is the body of list, search, week and month.
type EventsResponse struct {
	View   string        `json:"view,omitempty"`
	Label  string        `json:"label,omitempty"`
	Query  string        `json:"query,omitempty"`
	Count  int           `json:"count"`
	Events []EventOutput `json:"events"`
}

// EventResponse is the body of add, edit, show and delete.
type EventResponse struct {
	Status      string        `json:"status"`
	Event       *EventOutput  `json:"event,omitempty"`
	Overlapping []model.Event `json:"overlapping,omitempty"`
}

// NotificationsResponse is the body of upcoming.
type NotificationsResponse struct {
	At            string                  `json:"at"`
	Notifications []reminder.Notification `json:"notifications"`
}

// HolidaysResponse is the body of holidays.
type HolidaysResponse struct {
	Month    string            `json:"month"`
	Holidays []holiday.Holiday `json:"holidays"`
}

// WebhookOutput is a webhook with its URL masked.
type WebhookOutput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Enabled   bool   `json:"enabled"`
	LastUsed  string `json:"last_used,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// NewWebhookOutput masks w for display.
func NewWebhookOutput(w *model.Webhook) WebhookOutput {
	out := WebhookOutput{
		Name:      w.Name,
		Type:      w.Type,
		URL:       w.MaskedURL(),
		Enabled:   w.Enabled,
		LastError: w.LastError,
	}
	if !w.LastUsed.IsZero() {
		out.LastUsed = w.LastUsed.Format("2006-01-02T15:04:05Z07:00")
	}
	return out
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintEvents writes an EventsResponse.
func (j *JSONFormatter) PrintEvents(resp EventsResponse, events []model.Event, notified reminder.NotifiedSet) error {
	resp.Events = NewEventOutputs(events, notified)
	resp.Count = len(events)
	return j.JSON(resp)
}

// PrintEvent writes an EventResponse for e.
func (j *JSONFormatter) PrintEvent(status string, e model.Event, overlapping []model.Event) error {
	out := EventOutput{Event: e, RepeatLabel: e.RepeatLabel()}
	return j.JSON(EventResponse{Status: status, Event: &out, Overlapping: overlapping})
}

// PrintWebhooks writes masked webhooks.
func (j *JSONFormatter) PrintWebhooks(ws []*model.Webhook) error {
	out := make([]WebhookOutput, len(ws))
	for i, w := range ws {
		out[i] = NewWebhookOutput(w)
	}
	return j.JSON(map[string]any{"webhooks": out})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(errMsg, suggestion string) error {
	return j.JSON(ErrorResponse{Status: "error", Error: errMsg, Suggestion: suggestion})
}
