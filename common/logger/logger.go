package logger

import (
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/lmittmann/tint"
)

// Logger wraps slog.Logger with contextual fields
type Logger struct {
	*slog.Logger
}

// New creates a new logger writing to stdout
func New(level, format string) *Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, level, format string) *Logger {
	var handler slog.Handler

	logLevel := parseLevel(level)

	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: logLevel,
		})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.TimeOnly, // HH:MM:SS
		})
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything (tests)
func Discard() *Logger {
	return NewWithWriter(io.Discard, "error", "json")
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{
		Logger: l.With(args...),
	}
}

// WithRequestID adds request_id to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	if requestID == "" {
		return l
	}
	return &Logger{
		Logger: l.With("request_id", requestID),
	}
}

// WithPersonID adds person_id to logger context
func (l *Logger) WithPersonID(personID string) *Logger {
	return &Logger{
		Logger: l.With("person_id", personID),
	}
}

// Error logs an error with stack trace
func (l *Logger) Error(msg string, args ...any) {
	args = append(args, "stack", string(debug.Stack()))
	l.Logger.Error(msg, args...)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
