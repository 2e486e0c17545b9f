// Package logging wraps log/slog with a process-wide logger, the common
// attribute keys used by eventcal, and a rotating file sink for the daemon.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger *slog.Logger
	loggerMu      sync.RWMutex

	// Debug is set when the logger runs at debug level.
	Debug bool
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	JSON      bool
	Output    io.Writer // default stderr
	AddSource bool
}

// DefaultConfig logs warnings and errors as text to stderr so that command
// output stays clean.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelWarn,
		Output: os.Stderr,
	}
}

// DebugConfig logs everything as JSON with source locations.
func DebugConfig() Config {
	return Config{
		Level:     slog.LevelDebug,
		JSON:      true,
		Output:    os.Stderr,
		AddSource: true,
	}
}

// FileConfig describes a size-rotated log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns rotation settings for the daemon log at path.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
}

// NewFileWriter returns a writer that rotates the log file by size.
// Close it when done.
func NewFileWriter(cfg FileConfig) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// Init replaces the global logger.
func Init(cfg Config) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	Debug = cfg.Level <= slog.LevelDebug
}

// InitDebug switches the global logger to DebugConfig.
func InitDebug() {
	Init(DebugConfig())
}

// Logger returns the global logger.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// With returns the global logger with args attached.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

func Info(msg string, args ...any) {
	Logger().Info(msg, MaskArgs(args)...)
}

func DebugLog(msg string, args ...any) {
	Logger().Debug(msg, MaskArgs(args)...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, MaskArgs(args)...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, MaskArgs(args)...)
}

// Common attribute keys.
const (
	KeyRequestID = "request_id"
	KeyOperation = "op"
	KeyDuration  = "duration_ms"
	KeyError     = "error"
	KeyEventID   = "event_id"
	KeyDate      = "date"
	KeyView      = "view"
	KeyQuery     = "query"
	KeyWebhook   = "webhook"
	KeyURL       = "url"
	KeyStatus    = "status"
	KeyCount     = "count"
	KeyPath      = "path"
)

// LogOperation records a completed write at debug level.
func LogOperation(op string, args ...any) {
	allArgs := append([]any{KeyOperation, op}, args...)
	Logger().Debug("operation", MaskArgs(allArgs)...)
}
