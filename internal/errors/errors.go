// Package errors provides the error taxonomy used across eventcal.
// UserError is fixable by the user, SystemError is an environment failure,
// and RecoverableError may succeed on retry.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrWebhookNotFound    = errors.New("webhook not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidClock       = errors.New("invalid time of day")
	ErrEndBeforeStart     = errors.New("end time must be after start time")
	ErrInvalidRepeat      = errors.New("invalid repeat rule")
	ErrInvalidLeadTime    = errors.New("invalid notification time")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidView        = errors.New("invalid view")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrEventOverlap       = errors.New("event overlaps existing events")
	ErrDatabaseCorrupted  = errors.New("database corrupted")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrTimeout            = errors.New("operation timed out")
	ErrPermissionDenied   = errors.New("permission denied")
)

// UserError is an error the user can fix, such as bad input.
type UserError struct {
	Message    string
	Suggestion string
	Field      string
	Value      string
	Err        error // sentinel for errors.Is, optional
}

func (e *UserError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// NewUserErrorWithField creates a UserError naming the offending input.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
		Field:      field,
		Value:      value,
	}
}

// Because attaches a sentinel so callers can match with errors.Is.
func (e *UserError) Because(sentinel error) *UserError {
	e.Err = sentinel
	return e
}

// SystemError is a failure the user cannot fix directly.
type SystemError struct {
	Message string
	Cause   error
	Op      string
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause}
}

// NewSystemErrorWithOp creates a SystemError for a named operation.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause, Op: op}
}

// RecoverableError is a transient failure such as a webhook timeout.
type RecoverableError struct {
	Message    string
	Cause      error
	RetryCount int
	MaxRetries int
	CanRetry   bool
}

func (e *RecoverableError) Error() string {
	if e.RetryCount > 0 {
		return fmt.Sprintf("%s (attempt %d/%d)", e.Message, e.RetryCount, e.MaxRetries)
	}
	return e.Message
}

func (e *RecoverableError) Unwrap() error {
	return e.Cause
}

// NewRecoverableError creates a RecoverableError allowing maxRetries attempts.
func NewRecoverableError(message string, cause error, maxRetries int) *RecoverableError {
	return &RecoverableError{
		Message:    message,
		Cause:      cause,
		MaxRetries: maxRetries,
		CanRetry:   maxRetries > 0,
	}
}

// IncrementRetry records an attempt.
func (e *RecoverableError) IncrementRetry() {
	e.RetryCount++
	e.CanRetry = e.RetryCount < e.MaxRetries
}

func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

func IsRecoverableError(err error) bool {
	var re *RecoverableError
	return errors.As(err, &re)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Is and As mirror the standard library so callers need one import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// Wrap adds context to err. It returns nil for a nil err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to err. It returns nil for a nil err.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Chain returns the messages of err and every error it wraps.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}

// RootCause returns the innermost wrapped error.
func RootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
