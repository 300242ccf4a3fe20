package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a logger writing to w in the given format ("json" or text).
func New(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLogLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SetDefault installs a logger built by New as the process default.
func SetDefault(level, format string) *slog.Logger {
	logger := New(level, format, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// ParseLogLevel converts a string log level to slog.Level.
// Defaults to slog.LevelInfo for unrecognized strings.
func ParseLogLevel(level string) slog.Level {
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
