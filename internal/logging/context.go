package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type contextKey int

const requestIDKey contextKey = iota

// GenerateRequestID returns a 16 character hex id.
func GenerateRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// WithRequestID stores requestID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// NewRequestContext returns a background context with a fresh request id.
func NewRequestContext() context.Context {
	return WithRequestID(context.Background(), GenerateRequestID())
}

// RequestIDFromContext returns the request id in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// LoggerFromContext returns the global logger tagged with ctx's request id.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With(KeyRequestID, id)
	}
	return logger
}

// ContextLogger binds a logger to a context.
type ContextLogger struct {
	ctx    context.Context
	logger *slog.Logger
}

func FromContext(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: LoggerFromContext(ctx)}
}

func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(MaskArgs(args)...)}
}

func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, MaskArgs(args)...)
}

func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, MaskArgs(args)...)
}

func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, MaskArgs(args)...)
}

func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, MaskArgs(args)...)
}

func (cl *ContextLogger) RequestID() string {
	return RequestIDFromContext(cl.ctx)
}
