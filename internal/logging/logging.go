// Package logging sets up the process-wide slog logger.
//
// Log lines go to stdout and, when a file is configured, to a
// lumberjack-rotated log file as well.
package logging

import (
	"io"
	"log/slog"
	"os"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"github.com/mwhitt/haltwatch/internal/config"
)

// Setup builds a slog.Logger from the logging config and installs it as the
// default. The returned close function flushes and closes the log file, if
// any.
func Setup(cfg config.LoggingConfig) (*slog.Logger, func() error) {
	var w io.Writer = os.Stdout
	closeFn := func() error { return nil }

	if cfg.File != "" {
		rotated := &lj.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		w = io.MultiWriter(os.Stdout, rotated)
		closeFn = rotated.Close
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}))
	slog.SetDefault(logger)

	return logger, closeFn
}

func parseLevel(s string) slog.Level {
	switch s {
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
