package errors

import (
	"errors"
	"syscall"
)

// Category groups errors by who can act on them.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryUser
	CategorySystem
	CategoryRecoverable
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryRecoverable:
		return "recoverable"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// userSentinels are input and lookup failures the user fixes by changing
// the command, even when they arrive wrapped in plain fmt errors.
var userSentinels = []error{
	ErrEventNotFound,
	ErrWebhookNotFound,
	ErrTitleRequired,
	ErrInvalidDate,
	ErrInvalidClock,
	ErrEndBeforeStart,
	ErrInvalidRepeat,
	ErrInvalidLeadTime,
	ErrInvalidCategory,
	ErrInvalidView,
	ErrInvalidURL,
	ErrEventOverlap,
}

var systemErrnos = []syscall.Errno{
	syscall.ENOSPC,
	syscall.EACCES,
	syscall.EPERM,
	syscall.ENOENT,
	syscall.EIO,
	syscall.EROFS,
}

var transientErrnos = []syscall.Errno{
	syscall.EAGAIN,
	syscall.EINTR,
	syscall.ETIMEDOUT,
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
}

// Classify picks the category of err. Typed errors win, then known
// sentinels, then errno values.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryUnknown
	case IsUserError(err):
		return CategoryUser
	case IsSystemError(err):
		return CategorySystem
	case IsRecoverableError(err):
		return CategoryRecoverable
	case isAny(err, userSentinels...):
		return CategoryUser
	case isAny(err, ErrDatabaseCorrupted, ErrPermissionDenied), hasErrno(err, systemErrnos):
		return CategorySystem
	case isAny(err, ErrNetworkUnavailable, ErrTimeout), hasErrno(err, transientErrnos):
		return CategoryRecoverable
	}
	return CategoryUnknown
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func hasErrno(err error, set []syscall.Errno) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	for _, e := range set {
		if errno == e {
			return true
		}
	}
	return false
}

// ClassifiedError pins a category on an error Classify cannot place, such
// as an HTTP status.
type ClassifiedError struct {
	Err      error
	Category Category
}

func (e *ClassifiedError) Error() string { return e.Err.Error() }

func (e *ClassifiedError) Unwrap() error { return e.Err }

// WithCategory tags err with category. nil stays nil.
func WithCategory(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Err: err, Category: category}
}

// GetCategory returns the pinned category of err, or Classify(err).
func GetCategory(err error) Category {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return Classify(err)
}

func IsUserCategory(err error) bool {
	return GetCategory(err) == CategoryUser
}

// IsRecoverableCategory reports whether another attempt may succeed.
func IsRecoverableCategory(err error) bool {
	return GetCategory(err) == CategoryRecoverable
}

// FormatByCategory renders a non-user error for the terminal. An empty
// hint falls back to GetSuggestion and then to the category's hint.
func FormatByCategory(err error, hint string) string {
	if err == nil {
		return ""
	}
	if hint == "" {
		hint = GetSuggestion(err)
	}
	if hint == "" {
		hint = GetCategorySuggestion(err)
	}

	msg := err.Error()
	switch GetCategory(err) {
	case CategorySystem:
		msg = "System error: " + msg
	case CategoryRecoverable:
		msg += " (temporary)"
	}
	if hint != "" {
		msg += "\n\n" + hint
	}
	return msg
}
