// Package logging builds the root slog.Logger that internal/cli hands to a
// Kernel via kernel.WithLogger. Everything downstream of that root derives
// its own scoped logger by calling With("component", ...) against it (or,
// for a Kernel/Generator constructed without one, against slog.Default()) —
// see flow.GeneratorBase and kernel.New — rather than calling into this
// package a second time.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates the root logger for a CLI invocation.
//
// level: slog level (DEBUG, INFO, WARN, ERROR)
// format: "text" (human-readable) or "json" (structured)
//
// Output goes to stderr by default (stdout is reserved for scenario output
// such as tick summaries and demo narration).
func NewLogger(level slog.Level, format string) *slog.Logger {
	return NewLoggerWithWriter(level, format, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to the given writer, mainly
// so tests can assert on captured output instead of stderr.
func NewLoggerWithWriter(level slog.Level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts the --log-level flag's value to a slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
