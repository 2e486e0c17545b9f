package parser

import (
	"fmt"
	"strings"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
)

// TimeParseError describes unparseable date or time input with examples of
// accepted forms.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
	sentinel   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

func (e *TimeParseError) Unwrap() error {
	return e.sentinel
}

// ToUserError converts e for the CLI error printer.
func (e *TimeParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if suggestion == "" && len(e.Examples) > 0 {
		suggestion = "Try: " + strings.Join(e.Examples[:min(3, len(e.Examples))], ", ")
	}
	return errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion).Because(e.sentinel)
}

var (
	DateExamples = []string{
		"2024-07-10",
		"today",
		"tomorrow",
		"+3d",
		"-1w",
		"next friday",
	}
	ClockExamples = []string{
		"09:30",
		"14:00",
		"9am",
		"5:30pm",
		"noon",
	}
	TimestampExamples = []string{
		"now",
		"2024-07-10 09:50",
		"+10m",
		"tomorrow 9am",
	}
)

// NewDateError reports an unparseable date.
func NewDateError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "date",
		Message:    "could not parse date",
		Examples:   DateExamples,
		Suggestion: "Dates can be absolute (2024-07-10), relative (+3d) or natural language (next friday).",
		sentinel:   errors.ErrInvalidDate,
	}
}

// NewClockError reports an unparseable time of day.
func NewClockError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "time",
		Message:    "could not parse time of day",
		Examples:   ClockExamples,
		Suggestion: "Use 24-hour HH:MM or a 12-hour time like 9am.",
		sentinel:   errors.ErrInvalidClock,
	}
}

// NewTimestampError reports an unparseable instant.
func NewTimestampError(input string) *TimeParseError {
	return &TimeParseError{
		Input:    input,
		Field:    "timestamp",
		Message:  "could not parse time",
		Examples: TimestampExamples,
		sentinel: errors.ErrInvalidDate,
	}
}
