// Package logger provides structured logging for the device.
// Every state change Bob goes through should be traceable through this.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger provides structured logging with context.
type Logger struct {
	sl *slog.Logger
}

// NewLogger creates a text logger on stdout at Info level.
func NewLogger() *Logger {
	return NewWithHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// NewWithHandler wraps an arbitrary slog handler.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{sl: slog.New(h).With("component", "bob")}
}

// NewWriterLogger writes text records to w. The TUI uses it to keep logs off the terminal.
func NewWriterLogger(w io.Writer, level slog.Level) *Logger {
	return NewWithHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return NewWriterLogger(io.Discard, slog.LevelError+1)
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.sl
}

// Info logs informational messages.
func (l *Logger) Info(msg string, args ...any) {
	l.sl.Info(msg, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string, args ...any) {
	l.sl.Warn(msg, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string, args ...any) {
	l.sl.Error(msg, args...)
}

// Debug logs high-frequency details (input samples, frames).
func (l *Logger) Debug(msg string, args ...any) {
	l.sl.Debug(msg, args...)
}

// Event logs a specific device event for later inspection.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.sl.Info("event", "type", eventType, "actor", actorID, "details", details)
}
