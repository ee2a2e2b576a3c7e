// SPDX-License-Identifier: EPL-2.0

// Package logx holds the process-wide structured logger used by the
// real-time packages. The packages never fail loudly; they report degraded
// operations here at Warn level and keep going.
package logx

import (
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

// Logger returns the logger set with SetLogger, or slog.Default().
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}

	return slog.Default()
}

// SetLogger replaces the logger. A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// Warn logs msg at Warn level on the current logger.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Debug logs msg at Debug level on the current logger.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
