package runtime

import (
	"errors"
	"strings"
	"syscall"

	apperrors "github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/parser"
)

// ErrDiskFull marks writes that failed for lack of space.
var ErrDiskFull = errors.New("disk full: unable to write to database")

var diskFullPatterns = []string{
	"no space left on device",
	"disk full",
	"enospc",
	"not enough space",
	"insufficient disk space",
}

// IsDiskFullError reports whether err means the disk is full.
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDiskFull) || errors.Is(err, syscall.ENOSPC) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range diskFullPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// WrapStorageError turns a failed write into a SystemError, marking disk
// full conditions. nil stays nil.
func WrapStorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsUserError(err) || apperrors.Is(err, apperrors.ErrEventNotFound) || apperrors.Is(err, apperrors.ErrWebhookNotFound) {
		return err
	}
	if IsDiskFullError(err) {
		return apperrors.NewSystemErrorWithOp(op, "free up disk space and try again", errors.Join(ErrDiskFull, err))
	}
	return apperrors.NewSystemErrorWithOp(op, "database operation failed", err)
}

// userFacing lifts date and time parse failures into UserErrors so they
// print with their examples.
func userFacing(err error) error {
	var tpe *parser.TimeParseError
	if errors.As(err, &tpe) {
		return tpe.ToUserError()
	}
	return err
}

// Suggestion returns the most specific hint for err.
func Suggestion(err error) string {
	err = userFacing(err)
	if IsDiskFullError(err) {
		return "Free up disk space and try again."
	}
	if s := apperrors.GetSuggestion(err); s != "" {
		return s
	}
	return apperrors.GetCategorySuggestion(err)
}

// FormatError renders err for the terminal. Debug mode adds the chain.
func FormatError(err error, debug bool) string {
	if debug {
		return apperrors.FormatDebugError(err)
	}
	err = userFacing(err)
	if apperrors.IsUserCategory(err) {
		return apperrors.FormatUserError(err)
	}
	return apperrors.FormatByCategory(err, Suggestion(err))
}

// PrintError writes err in the context's output format.
func (c *Context) PrintError(err error) {
	PrintError(c.Formatter, err, c.Debug)
}

// PrintError writes err with f. It is usable before a Context exists.
func PrintError(f *output.Formatter, err error, debug bool) {
	if f.Format == output.FormatJSON {
		_ = output.NewJSONFormatter(f).PrintError(err.Error(), Suggestion(err))
		return
	}
	output.NewCLIFormatter(f).Error(FormatError(err, debug))
}
