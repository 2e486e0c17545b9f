package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clock24Regex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	clock12Regex = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
)

// ParseClock normalizes a time of day to HH:MM. It accepts "9:05", "14:30",
// "9am", "5:30pm", "noon" and "midnight".
func ParseClock(input string) (string, error) {
	s := strings.TrimSpace(input)

	switch strings.ToLower(s) {
	case "noon", "정오":
		return "12:00", nil
	case "midnight", "자정":
		return "00:00", nil
	}

	if m := clock24Regex.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if h > 23 || minute > 59 {
			return "", NewClockError(input)
		}
		return fmt.Sprintf("%02d:%02d", h, minute), nil
	}

	if m := clock12Regex.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if h < 1 || h > 12 || minute > 59 {
			return "", NewClockError(input)
		}
		h %= 12
		if strings.EqualFold(m[3], "pm") {
			h += 12
		}
		return fmt.Sprintf("%02d:%02d", h, minute), nil
	}

	return "", NewClockError(input)
}
