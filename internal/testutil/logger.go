package testutil

import (
	"io"
	"log/slog"

	"github.com/projectfair/server/internal/logger"
)

// DiscardLogger returns a Logger that drops all output, for use in tests.
func DiscardLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
