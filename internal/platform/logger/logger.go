package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/careerforge/careerforge-api/internal/config"
	"github.com/lmittmann/tint"
)

// Setup initializes the application's logging system from cfg, writing to
// stdout. The returned logger is also installed as the slog default.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := New(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger, nil
}

// New creates a logger that writes to w using the level and format in cfg.
// Unknown levels fall back to info; unknown formats fall back to JSON.
func New(w io.Writer, cfg config.ServerConfig) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)

	var handler slog.Handler
	switch strings.ToLower(cfg.LogFormat) {
	case "text":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// ParseLevel converts a configured level name (case-insensitive) into a
// slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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
