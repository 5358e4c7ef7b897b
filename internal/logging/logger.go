package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel selects the diagnostic log level ("debug" enables request tracing).
const EnvLogLevel = "GIT_COMMIT_HELPER_LOG"

// ParseLevel maps a level name to a slog level. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// LevelFor returns the level for a run: debug when forced by flag, else the env setting.
func LevelFor(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return ParseLevel(os.Getenv(EnvLogLevel))
}

// NewLogger creates a text logger writing to w (stderr when nil).
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
