package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/bazaar/internal/config"
)

// New creates a preconfigured slog.Logger writing JSON to stdout at the configured level.
func New(cfg *config.Config) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg.LogLevel)
}

// NewWithWriter creates JSON logger writing to w.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
