// Package logging constructs the slog loggers used by the CLI. The explorer owns the terminal, so
// logs either go to a file or are discarded.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewFileLogger creates a logger appending to the file at path, creating it if needed. The caller
// closes the returned file.
func NewFileLogger(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, level), f, nil
}

// NewDiscardLogger creates a logger that drops everything.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromString parses debug, info, warn (or warning) and error, case-insensitively. Anything
// else is info.
func LevelFromString(s string) slog.Level {
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

// Setup returns the logger for the given settings: a file logger when path is set, otherwise a
// discard logger. debug forces debug level. The returned close function is never nil.
func Setup(path, level string, debug bool) (*slog.Logger, func() error, error) {
	if path == "" {
		return NewDiscardLogger(), func() error { return nil }, nil
	}

	lvl := LevelFromString(level)
	if debug {
		lvl = slog.LevelDebug
	}

	logger, f, err := NewFileLogger(path, lvl)
	if err != nil {
		return nil, nil, err
	}
	return logger, f.Close, nil
}
