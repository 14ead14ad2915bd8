// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog. The text format targets a
// human at a terminal and carries no timestamps; the JSON format keeps them
// for log collectors.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
	cfg    domain.LogConfig
}

// New creates a Logger writing to stderr with the configured level and
// format.
func New(cfg domain.LogConfig) *Logger {
	return &Logger{
		logger: slog.New(buildHandler(os.Stderr, cfg)),
		cfg:    cfg,
	}
}

// SetOutput redirects the logger to w, keeping level and format. Tests use
// this to capture output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(buildHandler(w, l.cfg))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error. The full wrapped chain ends up in the error
// attribute, metadata included.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}

func buildHandler(w io.Writer, cfg domain.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}

	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && len(groups) == 0 {
			return slog.Attr{}
		}
		return a
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch level {
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
