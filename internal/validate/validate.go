// Package validate checks user input before it reaches storage.
package validate

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

const (
	MaxTitleLength       = 200
	MaxLocationLength    = 200
	MaxDescriptionLength = 4096
	MaxURLLength         = 2048
	MaxRepeatInterval    = 365
)

// Form messages shown next to the start and end time inputs.
const (
	StartAfterEndMessage  = "시작 시간은 종료 시간보다 빨라야 합니다."
	EndBeforeStartMessage = "종료 시간은 시작 시간보다 늦어야 합니다."
)

// TimeError returns the inline messages for a start/end pair. Both are empty
// when either value is missing or start is before end.
func TimeError(start, end string) (startErr, endErr string) {
	if start == "" || end == "" {
		return "", ""
	}
	s, ok1 := dateutil.ParseClock(start)
	e, ok2 := dateutil.ParseClock(end)
	if !ok1 || !ok2 {
		return "", ""
	}
	if s >= e {
		return StartAfterEndMessage, EndBeforeStartMessage
	}
	return "", ""
}

// Event validates a complete event as submitted from the CLI or an import.
func Event(e *model.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.NewUserError("Event title cannot be empty", "").Because(errors.ErrTitleRequired)
	}
	if utf8.RuneCountInString(e.Title) > MaxTitleLength {
		return errors.NewUserErrorWithField("title", e.Title, "Event title too long",
			fmt.Sprintf("Titles must be %d characters or fewer", MaxTitleLength))
	}
	if utf8.RuneCountInString(e.Location) > MaxLocationLength {
		return errors.NewUserError("Location too long",
			fmt.Sprintf("Locations must be %d characters or fewer", MaxLocationLength))
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return errors.NewUserError("Description too long",
			fmt.Sprintf("Descriptions must be %d characters or fewer", MaxDescriptionLength))
	}
	if err := Date("date", e.Date); err != nil {
		return err
	}
	if err := Clock("start", e.StartTime); err != nil {
		return err
	}
	if err := Clock("end", e.EndTime); err != nil {
		return err
	}
	if startErr, _ := TimeError(e.StartTime, e.EndTime); startErr != "" {
		return errors.NewUserErrorWithField("end", e.EndTime, EndBeforeStartMessage, "").
			Because(errors.ErrEndBeforeStart)
	}
	if !model.IsValidCategory(e.Category) {
		return errors.NewUserErrorWithField("category", e.Category, "Unknown category", "").
			Because(errors.ErrInvalidCategory)
	}
	if err := LeadTime(e.NotificationTime); err != nil {
		return err
	}
	return Repeat(e.Date, e.Repeat)
}

// Date validates a YYYY-MM-DD string.
func Date(field, value string) error {
	if value == "" {
		return errors.NewUserError(field+" cannot be empty", "").Because(errors.ErrInvalidDate)
	}
	if _, ok := dateutil.ParseDate(value, nil); !ok {
		return errors.NewUserErrorWithField(field, value, "Invalid date", "").Because(errors.ErrInvalidDate)
	}
	return nil
}

// Clock validates an HH:MM string.
func Clock(field, value string) error {
	if value == "" {
		return errors.NewUserError(field+" time cannot be empty", "").Because(errors.ErrInvalidClock)
	}
	if _, ok := dateutil.ParseClock(value); !ok {
		return errors.NewUserErrorWithField(field, value, "Invalid time", "").Because(errors.ErrInvalidClock)
	}
	return nil
}

// LeadTime validates a notification lead time in minutes. Zero disables the
// notification.
func LeadTime(minutes int) error {
	if minutes == 0 {
		return nil
	}
	if _, ok := model.NotificationOptions[minutes]; !ok {
		return errors.NewUserErrorWithField("notify", fmt.Sprint(minutes), "Unsupported notification time", "").
			Because(errors.ErrInvalidLeadTime)
	}
	return nil
}

// Repeat validates a repeat rule for an event starting on date.
func Repeat(date string, r model.RepeatInfo) error {
	if !model.IsValidRepeatType(r.Type) {
		return errors.NewUserErrorWithField("repeat", string(r.Type), "Unknown repeat type", "").
			Because(errors.ErrInvalidRepeat)
	}
	if r.Type == "" || r.Type == model.RepeatNone {
		return nil
	}
	if r.Interval < 1 || r.Interval > MaxRepeatInterval {
		return errors.NewUserErrorWithField("interval", fmt.Sprint(r.Interval), "Repeat interval out of range",
			fmt.Sprintf("Use an interval between 1 and %d", MaxRepeatInterval)).
			Because(errors.ErrInvalidRepeat)
	}
	if r.EndDate == "" {
		return nil
	}
	if err := Date("until", r.EndDate); err != nil {
		return err
	}
	if r.EndDate < date {
		return errors.NewUserErrorWithField("until", r.EndDate, "Repeat end date is before the event date", "").
			Because(errors.ErrInvalidRepeat)
	}
	return nil
}

// WebhookName validates a webhook name.
func WebhookName(name string) error {
	if !model.IsValidWebhookName(name) {
		return errors.NewUserErrorWithField("name", name, "Invalid webhook name",
			"Names start with a letter or number and contain only letters, numbers, dashes or underscores")
	}
	return nil
}

// URL validates a webhook endpoint. http is only accepted for localhost and
// private addresses are rejected.
func URL(rawURL string) error {
	if rawURL == "" {
		return errors.NewUserError("URL cannot be empty", "Provide a valid URL").Because(errors.ErrInvalidURL)
	}
	if len(rawURL) > MaxURLLength {
		return errors.NewUserError("URL too long", "URLs must be 2048 characters or fewer").Because(errors.ErrInvalidURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewUserErrorWithField("url", rawURL, "Invalid URL format", "").Because(errors.ErrInvalidURL)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.NewUserErrorWithField("url", rawURL, "Invalid URL scheme",
			"URLs must use https:// (or http:// for localhost)")
	}

	host := parsed.Hostname()
	if host == "" {
		return errors.NewUserErrorWithField("url", rawURL, "Invalid URL: missing hostname",
			"Provide a valid URL like https://example.com/webhook")
	}

	local := host == "localhost" || host == "127.0.0.1" || host == "::1"
	if parsed.Scheme == "http" && !local {
		return errors.NewUserErrorWithField("url", rawURL, "HTTP not allowed for external URLs",
			"Use https://. HTTP is only allowed for localhost.")
	}
	if !local {
		return checkInternalIP(host)
	}
	return nil
}

func checkInternalIP(host string) error {
	if ip := net.ParseIP(host); ip != nil {
		if isInternalIP(ip) {
			return errors.NewUserErrorWithField("url", host, "Internal IP addresses not allowed",
				"Webhook URLs must point to external services")
		}
		return nil
	}

	// Unresolvable hosts fail later at delivery time.
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		if isInternalIP(ip) {
			return errors.NewUserErrorWithField("url", host, "Hostname resolves to internal IP",
				"Webhook URLs must point to external services")
		}
	}
	return nil
}

var privateRanges = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"fc00::/7",
	"fe80::/10",
	"::1/128",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		out = append(out, n)
	}
	return out
}

func isInternalIP(ip net.IP) bool {
	for _, n := range privateRanges {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
