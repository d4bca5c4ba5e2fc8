package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/transcribe-dashboard/internal/config"
)

// NewLogger builds the process logger on stderr and installs it as the
// slog default.
//
// Format "json" produces structured JSON; "text" is human-readable and
// includes source positions. Level is debug, info, warn (or warning) or
// error, case-insensitive, and defaults to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	text := strings.EqualFold(strings.TrimSpace(cfg.Format), "text")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: text,
	}

	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
