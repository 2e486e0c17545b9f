package notify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// SlackFormatter renders a notification with Slack Block Kit.
type SlackFormatter struct{}

type slackPayload struct {
	Text        string        `json:"text,omitempty"`
	Blocks      []slackBlock  `json:"blocks,omitempty"`
	Attachments []slackAttach `json:"attachments,omitempty"`
}

type slackBlock struct {
	Type     string           `json:"type"`
	Text     *slackBlockText  `json:"text,omitempty"`
	Fields   []slackBlockText `json:"fields,omitempty"`
	Elements []slackBlockText `json:"elements,omitempty"`
}

type slackBlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackAttach struct {
	Color    string `json:"color,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}

func (f *SlackFormatter) Format(n *model.Notification) ([]byte, error) {
	blocks := []slackBlock{
		{Type: "header", Text: &slackBlockText{Type: "plain_text", Text: n.Title}},
		{Type: "section", Text: &slackBlockText{Type: "mrkdwn", Text: slackEscape(n.Message)}},
	}

	if len(n.Fields) > 0 {
		var fields []slackBlockText
		for _, k := range fieldKeys(n) {
			fields = append(fields, slackBlockText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*%s*\n%s", slackEscape(k), slackEscape(n.Fields[k])),
			})
		}
		blocks = append(blocks, slackBlock{Type: "section", Fields: fields})
	}

	blocks = append(blocks, slackBlock{
		Type: "context",
		Elements: []slackBlockText{{
			Type: "mrkdwn",
			Text: fmt.Sprintf("%s | %s | %s", footer, n.TypeLabel(), n.Timestamp.Format("2006-01-02 15:04")),
		}},
	})

	return json.Marshal(slackPayload{
		Text:        n.Message,
		Blocks:      blocks,
		Attachments: []slackAttach{{Color: colorToHex(colorOf(n)), Fallback: n.Title}},
	})
}

func (f *SlackFormatter) ContentType() string {
	return contentTypeJSON
}

func colorToHex(color int) string {
	return fmt.Sprintf("#%06X", color)
}

var slackReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// slackEscape escapes the characters Slack mrkdwn treats as control syntax.
func slackEscape(s string) string {
	return slackReplacer.Replace(s)
}
