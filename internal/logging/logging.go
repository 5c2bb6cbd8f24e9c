// Package logging builds the process logger from the [log] configuration
// section.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dshills/gridpaint/internal/config"
)

// Format names accepted in the [log] section.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options describe the running program; they are attached to every record.
type Options struct {
	App     string
	Version string
	// Stderr replaces os.Stderr when no file is configured.
	Stderr io.Writer
}

// Setup returns a logger for cfg and a function that releases its output.
func Setup(cfg config.LogConfig, opts Options) (*slog.Logger, func() error, error) {
	if opts.App == "" {
		opts.App = "gridpaint"
	}
	writer, closeFn, err := resolveWriter(cfg, opts)
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	case "", FormatText:
		handler = slog.NewTextHandler(writer, handlerOpts)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	logger := slog.New(handler).With(slog.String("app", opts.App))
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger, closeFn, nil
}

// ParseLevel maps a level name to a slog level. Unknown names are Info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

func resolveWriter(cfg config.LogConfig, opts Options) (io.Writer, func() error, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		return w, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging: creating log dir: %w", err)
	}
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(cfg.MaxSizeMB, 20),
		MaxBackups: positiveOr(cfg.MaxBackups, 5),
		MaxAge:     positiveOr(cfg.MaxAgeDays, 7),
		Compress:   cfg.Compress,
	}
	return rot, rot.Close, nil
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
