package notify

import (
	"bytes"
	"encoding/json"
	"text/template"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// GenericFormatter posts plain JSON, or the output of a user template.
type GenericFormatter struct {
	Template string
}

// NewGenericFormatter creates a generic formatter. An empty template uses
// the default JSON body.
func NewGenericFormatter(tmpl string) *GenericFormatter {
	return &GenericFormatter{Template: tmpl}
}

type genericPayload struct {
	Type      string            `json:"type"`
	Label     string            `json:"label"`
	EventID   string            `json:"eventId,omitempty"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
	Color     int               `json:"color,omitempty"`
}

func (f *GenericFormatter) Format(n *model.Notification) ([]byte, error) {
	if f.Template != "" {
		return f.formatWithTemplate(n)
	}
	return json.Marshal(genericPayload{
		Type:      string(n.Type),
		Label:     n.TypeLabel(),
		EventID:   n.EventID,
		Title:     n.Title,
		Message:   n.Message,
		Fields:    n.Fields,
		Timestamp: n.Timestamp.UTC().Format(time.RFC3339),
		Color:     colorOf(n),
	})
}

// ParseTemplate compiles a body template. The notification is the data,
// e.g. {"text": "{{.Message}}"}.
func ParseTemplate(text string) (*template.Template, error) {
	return template.New("webhook").Option("missingkey=zero").Parse(text)
}

func (f *GenericFormatter) formatWithTemplate(n *model.Notification) ([]byte, error) {
	tmpl, err := ParseTemplate(f.Template)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *GenericFormatter) ContentType() string {
	return contentTypeJSON
}
