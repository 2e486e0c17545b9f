// Package notify delivers event notifications to webhooks.
package notify

import (
	"sort"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

const contentTypeJSON = "application/json"

// footer labels every outbound message.
const footer = "eventcal"

// Formatter turns a notification into a webhook-specific payload.
type Formatter interface {
	Format(n *model.Notification) ([]byte, error)
	ContentType() string
}

// GetFormatter returns the formatter for a webhook type. Unknown types get
// the generic JSON formatter.
func GetFormatter(webhookType string) Formatter {
	switch webhookType {
	case model.WebhookTypeDiscord:
		return &DiscordFormatter{}
	case model.WebhookTypeSlack:
		return &SlackFormatter{}
	default:
		return &GenericFormatter{}
	}
}

// formatterFor honors a generic webhook's custom template.
func formatterFor(w *model.Webhook) Formatter {
	if w.Type == model.WebhookTypeGeneric && w.Template != "" {
		return NewGenericFormatter(w.Template)
	}
	return GetFormatter(w.Type)
}

func colorOf(n *model.Notification) int {
	if n.Color != 0 {
		return n.Color
	}
	return model.DefaultColorForType(n.Type)
}

// fieldKeys returns the notification's field names in a stable order.
func fieldKeys(n *model.Notification) []string {
	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
