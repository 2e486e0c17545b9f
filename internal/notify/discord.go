package notify

import (
	"encoding/json"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/validate"
)

// Discord embed limits.
const (
	discordTitleMax       = 256
	discordDescriptionMax = 4096
	discordFieldValueMax  = 1024
)

// DiscordFormatter renders a notification as a single Discord embed.
type DiscordFormatter struct{}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

func (f *DiscordFormatter) Format(n *model.Notification) ([]byte, error) {
	embed := discordEmbed{
		Title:       validate.Truncate(n.Title, discordTitleMax),
		Description: validate.Truncate(n.Message, discordDescriptionMax),
		Color:       colorOf(n),
		Timestamp:   n.Timestamp.UTC().Format(time.RFC3339),
		Footer:      &discordEmbedFooter{Text: footer + " | " + n.TypeLabel()},
	}
	for _, k := range fieldKeys(n) {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: k, Value: validate.Truncate(n.Fields[k], discordFieldValueMax), Inline: true})
	}
	return json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
}

func (f *DiscordFormatter) ContentType() string {
	return contentTypeJSON
}
