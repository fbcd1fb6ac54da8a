package logger

import (
	"log/slog"
	"os"
)

// Logger wraps slog for structured application logging.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing JSON records at the given level.
// Level follows slog numbering: 0 is Info, -4 is Debug.
func New(level int) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.Level(level),
	})
	return &Logger{Logger: slog.New(handler)}
}

// With returns a Logger that includes the given attributes in every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
