package validate

import (
	"strings"
	"unicode"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// SanitizeEvent trims the free-text fields of e in place and strips control
// characters. Descriptions keep newlines and tabs.
func SanitizeEvent(e *model.Event) {
	e.Title = SanitizeLine(e.Title)
	e.Location = SanitizeLine(e.Location)
	e.Category = strings.TrimSpace(e.Category)
	e.Description = SanitizeText(e.Description)
}

// SanitizeLine removes every control character and surrounding space.
func SanitizeLine(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// SanitizeText normalizes line endings and strips control characters other
// than newline and tab.
func SanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// Truncate shortens s to at most maxRunes runes, ending with "…" when cut.
func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-1]) + "…"
}
