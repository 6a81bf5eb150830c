package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// New builds the process logger. level is one of debug, info, warn, error.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger provides request-scoped structured logging for services
type Logger struct {
	base      *slog.Logger
	requestID string
}

// FromContext creates a logger carrying the request ID set by the request ID middleware.
func FromContext(ctx context.Context, base *slog.Logger) *Logger {
	if base == nil {
		base = slog.Default()
	}
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{base: base, requestID: requestID}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error, attrs ...any) {
	l.base.Error("operation failed", l.fields(operation, append(attrs, "error", err))...)
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string, attrs ...any) {
	l.base.Info(message, l.fields(operation, attrs)...)
}

// LogDebug logs a debug message with context
func (l *Logger) LogDebug(operation string, message string, attrs ...any) {
	l.base.Debug(message, l.fields(operation, attrs)...)
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string, attrs ...any) {
	l.base.Warn(message, l.fields(operation, attrs)...)
}

func (l *Logger) fields(operation string, attrs []any) []any {
	return append([]any{"request_id", l.requestID, "operation", operation}, attrs...)
}
