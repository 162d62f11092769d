package common

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used by every engine package.
// Passing nil restores slog.Default().
//
// Parameters:
//   - l: the logger to use, or nil for the default logger
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the engine-wide logger.
//
// Returns:
//   - *slog.Logger: the logger set via SetLogger, or slog.Default()
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
