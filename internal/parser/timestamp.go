package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// relativeTimeRegex matches offsets like "+10m", "-2h", "+1d".
var relativeTimeRegex = regexp.MustCompile(`^([+-])(\d+)([smhdw])$`)

const timestampLayout = "2006-01-02 15:04"

// ParseTimestamp resolves an instant relative to now. Accepted forms are
// "" or "now", "2024-07-10 09:50", relative offsets like "+10m", and natural
// language such as "tomorrow 9am".
func ParseTimestamp(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "now") {
		return now, nil
	}

	if t, err := time.ParseInLocation(timestampLayout, input, now.Location()); err == nil {
		return t, nil
	}

	if m := relativeTimeRegex.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[2])
		var unit time.Duration
		switch m[3] {
		case "s":
			unit = time.Second
		case "m":
			unit = time.Minute
		case "h":
			unit = time.Hour
		case "d":
			unit = 24 * time.Hour
		case "w":
			unit = 7 * 24 * time.Hour
		}
		d := time.Duration(n) * unit
		if m[1] == "-" {
			d = -d
		}
		return now.Add(d), nil
	}

	cfg := &dateparser.Configuration{CurrentTime: now}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, NewTimestampError(input)
	}
	return result.Time.In(now.Location()), nil
}
