// Package log provides the leveled, key-value structured logger used
// throughout baals-go: every call site takes a message string followed
// by alternating key/value pairs.
package log

import (
	"log/slog"
	"os"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetHandler swaps the underlying slog handler, used by cmd/baalsd to
// wire JSON logging or a different verbosity.
func SetHandler(h slog.Handler) {
	root = slog.New(h)
}

func Trace(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// Crit logs at error level and terminates the process, matching the
// teacher's log.Crit semantics for unrecoverable startup/decode errors.
func Crit(msg string, ctx ...any) {
	root.Error(msg, ctx...)
	os.Exit(1)
}
