package runtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/config"
	apperrors "github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/parser"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := New(Options{InMemory: true, Config: config.Default(), Format: output.FormatCLI})
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.InMemory)
}

func TestNewInMemory(t *testing.T) {
	ctx := newTestContext(t)
	assert.NotNil(t, ctx.Events)
	assert.NotNil(t, ctx.Webhooks)
	assert.NotNil(t, ctx.Notified)
	assert.True(t, ctx.IsCLI())
	assert.False(t, ctx.IsJSON())
	assert.False(t, ctx.IsPlain())
}

func TestNewLoadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := config.Default()
	cfg.Timezone = "Asia/Seoul"
	cfg.DBPath = filepath.Join(dir, "db")
	require.NoError(t, config.Save(path, cfg))
	t.Setenv(EnvDatabase, "")

	ctx, err := New(Options{ConfigPath: path})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, "Asia/Seoul", ctx.Location.String())
	assert.Equal(t, filepath.Join(dir, "db"), ctx.DB.Path())
}

func TestResolveDB(t *testing.T) {
	cfg := config.Default()

	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv(EnvDatabase, ":memory:")
		got := resolveDB(Options{DBPath: "/tmp/x"}, cfg)
		assert.Equal(t, "/tmp/x", got.Path)
	})
	t.Run("env memory", func(t *testing.T) {
		t.Setenv(EnvDatabase, ":memory:")
		assert.True(t, resolveDB(Options{}, cfg).InMemory)
	})
	t.Run("env path", func(t *testing.T) {
		t.Setenv(EnvDatabase, "/tmp/env-db")
		assert.Equal(t, "/tmp/env-db", resolveDB(Options{}, cfg).Path)
	})
	t.Run("config path", func(t *testing.T) {
		t.Setenv(EnvDatabase, "")
		c := *cfg
		c.DBPath = "/tmp/cfg-db"
		assert.Equal(t, "/tmp/cfg-db", resolveDB(Options{}, &c).Path)
	})
}

func TestContextNow(t *testing.T) {
	ctx := newTestContext(t)
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	ctx.Location = seoul
	ctx.SetClock(func() time.Time { return time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC) })

	assert.Equal(t, 9, ctx.Now().Hour())
}

func TestListEventsExpands(t *testing.T) {
	ctx := newTestContext(t)
	e := model.NewEvent("스탠드업", "2024-07-01", "09:00", "09:15")
	e.Repeat = model.RepeatInfo{Type: model.RepeatWeekly, Interval: 1}
	require.NoError(t, ctx.Events.Create(e))

	raw, err := ctx.ListEvents(false, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, raw, 1)

	anchor := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	expanded, err := ctx.ListEventsAround(anchor, true)
	require.NoError(t, err)
	assert.Len(t, expanded, 6, "Jul 1 through Aug 5")
}

func TestNotifiedSet(t *testing.T) {
	ctx := newTestContext(t)
	assert.Equal(t, 0, ctx.NotifiedSet().Len())

	require.NoError(t, ctx.Notified.Mark("a", "b"))
	set := ctx.NotifiedSet()
	assert.True(t, set.Contains("a"))
	assert.True(t, set.Contains("b"))
}

// =============================================================================
// Error Tests
// =============================================================================

func TestIsDiskFullError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", fmt.Errorf("write: %w", ErrDiskFull), true},
		{"errno", fmt.Errorf("sync: %w", syscall.ENOSPC), true},
		{"message", errors.New("write /data: No space left on device"), true},
		{"other", errors.New("permission denied"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDiskFullError(tt.err))
		})
	}
}

func TestWrapStorageError(t *testing.T) {
	assert.NoError(t, WrapStorageError(nil, "save"))

	notFound := fmt.Errorf("abc: %w", apperrors.ErrEventNotFound)
	assert.Equal(t, notFound, WrapStorageError(notFound, "get"))

	err := WrapStorageError(syscall.ENOSPC, "save")
	assert.True(t, apperrors.IsSystemError(err))
	assert.ErrorIs(t, err, ErrDiskFull)

	err = WrapStorageError(errors.New("closed"), "list")
	assert.True(t, apperrors.IsSystemError(err))
	assert.Contains(t, err.Error(), "during list")
}

func TestSuggestion(t *testing.T) {
	assert.Contains(t, Suggestion(fmt.Errorf("x: %w", apperrors.ErrEventNotFound)), "eventcal list")
	assert.Contains(t, Suggestion(ErrDiskFull), "disk space")
	ue := apperrors.NewUserError("bad", "do better")
	assert.Equal(t, "do better", Suggestion(ue))
}

func TestFormatError(t *testing.T) {
	err := apperrors.NewUserError("제목을 입력하세요", "Pass a title.")
	assert.Contains(t, FormatError(err, false), "Pass a title.")
	assert.Contains(t, FormatError(err, true), "Category:")

	t.Run("parse error prints as user error", func(t *testing.T) {
		out := FormatError(fmt.Errorf("--date: %w", parser.NewDateError("someday")), false)
		assert.Contains(t, out, "could not parse date: 'someday'")
		assert.Contains(t, out, "natural language")
		assert.Contains(t, out, "Examples:")
	})

	t.Run("wrapped sentinel is a user error", func(t *testing.T) {
		out := FormatError(fmt.Errorf("resolve abc: %w", apperrors.ErrEventNotFound), false)
		assert.Equal(t, apperrors.FormatUserError(fmt.Errorf("resolve abc: %w", apperrors.ErrEventNotFound)), out)
		assert.Contains(t, out, "eventcal list")
	})

	t.Run("storage failure", func(t *testing.T) {
		out := FormatError(WrapStorageError(syscall.ENOSPC, "save"), false)
		assert.True(t, strings.HasPrefix(out, "System error: "))
		assert.Contains(t, out, "Free up disk space")
	})
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	f := &output.Formatter{Writer: &buf, Format: output.FormatJSON}
	PrintError(f, fmt.Errorf("x: %w", apperrors.ErrWebhookNotFound), false)

	var resp output.ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Suggestion, "webhook list")

	buf.Reset()
	f.Format = output.FormatCLI
	f.ColorMode = output.ColorNever
	PrintError(f, errors.New("boom"), false)
	assert.Contains(t, buf.String(), "✗ boom")
}
