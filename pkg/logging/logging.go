// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.Setup(cfg.Log.Level)    // level from config
//	logging.SetupWithLevel(slog.LevelDebug)   // explicit level override
//
// Levels: debug, info, warn, error (default: info). LOG_LEVEL, when set,
// overrides the configured level.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the named level and returns the logger.
func Setup(level string) *slog.Logger {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	return SetupWithLevel(ParseLevel(level))
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger writing to w without installing it as default.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    !isTerminal(w),
	}))
}

// ParseLevel maps a level name to slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
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

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
