package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func LevelFromEnv(s string) slog.Level {
	switch strings.ToLower(s) {
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

// NewJSON returns the process logger; every record carries the component name.
func NewJSON(level slog.Level, component string) *slog.Logger {
	return New(os.Stdout, level, component)
}

func New(w io.Writer, level slog.Level, component string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).With("component", component)
}
