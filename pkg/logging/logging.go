package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-logr/logr"
)

// Level is a log severity, ordered the same way slog.Level is so trace
// sits strictly below debug.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// ParseLevel maps one of trace|debug|info|warn|error (case-insensitive) to
// a Level, defaulting to LevelInfo for anything else so a malformed
// log_level never prevents the server from starting.
func ParseLevel(name string) Level {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// New builds a logr.Logger backed by a slog.TextHandler writing to output,
// filtered to level and above.
func New(level Level, output io.Writer) logr.Logger {
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: slog.Level(level)})
	return logr.FromSlogHandler(handler)
}
