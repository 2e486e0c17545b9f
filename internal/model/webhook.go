package model

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// PrefixWebhook namespaces webhook records in the database.
const PrefixWebhook = "webhook"

// MaxWebhookNameLength bounds webhook names.
const MaxWebhookNameLength = 50

// Payload flavours a webhook can receive.
const (
	WebhookTypeDiscord = "discord"
	WebhookTypeSlack   = "slack"
	WebhookTypeGeneric = "generic"
)

// Webhook is a notification target. Generic webhooks may carry a
// text/template that renders the request body.
type Webhook struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	Enabled   bool      `json:"enabled"`
	Template  string    `json:"template,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

func (w *Webhook) SetKey(key string) { w.Key = key }

func (w *Webhook) GetKey() string { return w.Key }

func (w *Webhook) IsEnabled() bool { return w.Enabled }

// MaskedURL hides the token that Discord and Slack put in the last path
// segment, along with any query string. Single-segment paths are shown as is.
func (w *Webhook) MaskedURL() string {
	u, err := url.Parse(w.URL)
	if err != nil || u.Host == "" {
		return "***"
	}
	masked := u.Scheme + "://" + u.Host
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 1 {
		segments[len(segments)-1] = "***"
	}
	if segments[0] != "" {
		masked += "/" + strings.Join(segments, "/")
	}
	if u.RawQuery != "" {
		masked += "?***"
	}
	return masked
}

// GenerateWebhookKey returns the database key for the webhook called name.
func GenerateWebhookKey(name string) string {
	return PrefixWebhook + ":" + name
}

// NewWebhook returns an enabled webhook created at now.
func NewWebhook(name, webhookType, rawURL string, now time.Time) *Webhook {
	return &Webhook{
		Key:       GenerateWebhookKey(name),
		Name:      name,
		Type:      webhookType,
		URL:       rawURL,
		Enabled:   true,
		CreatedAt: now,
	}
}

func ValidWebhookTypes() []string {
	return []string{WebhookTypeDiscord, WebhookTypeSlack, WebhookTypeGeneric}
}

func IsValidWebhookType(t string) bool {
	for _, valid := range ValidWebhookTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// Names start with a letter or digit; dashes and underscores may follow.
var webhookNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

func IsValidWebhookName(name string) bool {
	return len(name) <= MaxWebhookNameLength && webhookNamePattern.MatchString(name)
}

// webhookHosts maps known providers to their payload type. Subdomains of a
// host match too, so canary.discord.com is a Discord webhook.
var webhookHosts = []struct {
	host       string
	pathPrefix string
	kind       string
}{
	{"discord.com", "/api/webhooks/", WebhookTypeDiscord},
	{"discordapp.com", "/api/webhooks/", WebhookTypeDiscord},
	{"hooks.slack.com", "/", WebhookTypeSlack},
}

// DetectWebhookType guesses the payload type from the URL host. Anything
// unrecognised is generic.
func DetectWebhookType(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return WebhookTypeGeneric
	}
	host := strings.ToLower(u.Hostname())
	for _, rule := range webhookHosts {
		if host != rule.host && !strings.HasSuffix(host, "."+rule.host) {
			continue
		}
		if strings.HasPrefix(u.Path, rule.pathPrefix) {
			return rule.kind
		}
	}
	return WebhookTypeGeneric
}
