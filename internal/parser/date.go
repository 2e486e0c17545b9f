package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
)

// relativeDateRegex matches offsets like "+3d", "-1w", "+2m" (months), "+1y".
var relativeDateRegex = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)

// ParseDate resolves a calendar date relative to now and returns midnight of
// that day in now's location. Accepted forms:
//   - "" or "today", "tomorrow", "yesterday"
//   - "2024-07-10"
//   - "+3d", "-1w", "+2m", "+1y"
//   - anything go-dateparser understands, such as "next friday"
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	today := midnight(now)

	switch strings.ToLower(input) {
	case "", "today", "오늘":
		return today, nil
	case "tomorrow", "내일":
		return today.AddDate(0, 0, 1), nil
	case "yesterday", "어제":
		return today.AddDate(0, 0, -1), nil
	}

	if t, err := time.ParseInLocation(model.DateLayout, input, now.Location()); err == nil {
		return t, nil
	}

	if m := relativeDateRegex.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[2])
		if m[1] == "-" {
			n = -n
		}
		switch m[3] {
		case "d":
			return today.AddDate(0, 0, n), nil
		case "w":
			return today.AddDate(0, 0, 7*n), nil
		case "m":
			return today.AddDate(0, n, 0), nil
		case "y":
			return today.AddDate(n, 0, 0), nil
		}
	}

	cfg := &dateparser.Configuration{CurrentTime: now}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, NewDateError(input)
	}
	y, m, d := result.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
}

// FormatDate parses input relative to now and renders it as YYYY-MM-DD.
func FormatDate(input string, now time.Time) (string, error) {
	t, err := ParseDate(input, now)
	if err != nil {
		return "", err
	}
	return t.Format(model.DateLayout), nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
