// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the logger from the environment: DIAGEN_LOG_LEVEL selects
// the level, DIAGEN_LOG_FORMAT=json switches to JSON output. Logs go to
// stderr so they never mix with rendered artifacts on stdout.
func New() *slog.Logger {
	level := parseLevel(os.Getenv("DIAGEN_LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("DIAGEN_LOG_FORMAT")))
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
