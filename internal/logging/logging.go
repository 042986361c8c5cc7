// Package logging configures the process-wide structured logger
// (adapted from the teacher's libs/go/core/logging package: same
// env-var driven handler choice, renamed to this tool's own prefix).
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures a global slog logger. JSON if DP2D_JSON_LOG=1/true,
// else text. --json-log (internal/config) sets DP2D_JSON_LOG before
// calling Init, so the flag and the env var agree.
func Init() *slog.Logger {
	mode := strings.ToLower(os.Getenv("DP2D_JSON_LOG"))
	var handler slog.Handler
	if mode == "1" || mode == "true" || mode == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: levelFromEnv()})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelFromEnv()})
	}
	logger := slog.New(handler).With("component", "dph")
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Leveler {
	switch strings.ToLower(os.Getenv("DP2D_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
