package errors

import "errors"

// Suggestions maps sentinel errors to a next step for the user.
var Suggestions = map[error]string{
	ErrEventNotFound:      "Use 'eventcal list --view all' to see event ids.",
	ErrWebhookNotFound:    "Use 'eventcal webhook list' to see configured webhooks.",
	ErrTitleRequired:      "Pass the event title as the first argument.",
	ErrInvalidDate:        "Use YYYY-MM-DD, 'today', 'tomorrow', '+3d' or a phrase like 'next friday'.",
	ErrInvalidClock:       "Use 24-hour HH:MM like '09:30' or '14:00', or '9am'.",
	ErrEndBeforeStart:     "Pick an end time later than the start time.",
	ErrInvalidRepeat:      "Use --repeat none|daily|weekly|monthly|yearly with --interval of 1 or more.",
	ErrInvalidLeadTime:    "Use --notify 0, 1, 10, 60, 120 or 1440 (minutes).",
	ErrInvalidCategory:    "Use one of the categories 업무, 개인, 가족, 기타.",
	ErrInvalidView:        "Use --view week, month or all.",
	ErrInvalidURL:         "Provide a valid URL starting with https:// (or http:// for localhost).",
	ErrEventOverlap:       "Pick a different time or pass --force to save anyway.",
	ErrDatabaseCorrupted:  "Move the database directory aside and import a backup with 'eventcal import'.",
	ErrNetworkUnavailable: "Check your internet connection. Notifications will retry automatically.",
	ErrTimeout:            "The operation took too long. Try again or check your network connection.",
	ErrPermissionDenied:   "Check file permissions in your data directory (~/.local/share/eventcal/).",
}

// GetSuggestion returns the suggestion for err. A UserError's own
// suggestion wins over the sentinel table.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}
	for known, suggestion := range Suggestions {
		if errors.Is(err, known) {
			return suggestion
		}
	}
	return ""
}

// GetCategorySuggestion returns a generic hint for err's category.
func GetCategorySuggestion(err error) string {
	switch GetCategory(err) {
	case CategoryUser:
		return "Check your input and try again. Use --help for usage information."
	case CategorySystem:
		return "This is a system error. Check system resources and try again."
	case CategoryRecoverable:
		return "This error may resolve itself. The operation will be retried automatically."
	}
	return ""
}

// CommandExamples lists example invocations for common input errors.
var CommandExamples = map[error][]string{
	ErrInvalidDate: {
		"eventcal add \"팀 회의\" --date 2024-07-10 --start 10:00 --end 11:00",
		"eventcal add standup --date tomorrow --start 9am --end 9:15",
		"eventcal list --view week --date +7d",
	},
	ErrInvalidClock: {
		"eventcal add lunch --date today --start 12:00 --end 13:00",
		"eventcal upcoming --at \"tomorrow 9am\"",
	},
	ErrInvalidRepeat: {
		"eventcal add gym --date today --start 07:00 --end 08:00 --repeat weekly --interval 2",
		"eventcal add rent --date 2024-07-01 --start 09:00 --end 09:10 --repeat monthly --until 2024-12-31",
	},
}

// GetExamples returns example commands for err.
func GetExamples(err error) []string {
	for known, examples := range CommandExamples {
		if errors.Is(err, known) {
			return examples
		}
	}
	return nil
}
