// Package logging wires slog to the app log file with rotation, plus the
// console. Engines receive the returned logger by injection; there is no
// package-level logger anywhere in the tool.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/macsweep/macsweep/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup creates the app log directory and returns a logger writing to the
// rotated log file and stderr. Console noise stays low unless debug is on;
// the file always gets debug-level records.
func Setup(layout config.Layout, debug bool) (*slog.Logger, error) {
	if err := os.MkdirAll(layout.AppLogs, 0o755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   layout.AppLogFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, fileWriter), &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler), nil
}

// FileOnly returns a logger that writes only to the rotated log file,
// keeping stdout clean for command output and TUIs.
func FileOnly(layout config.Layout, debug bool) (*slog.Logger, error) {
	if err := os.MkdirAll(layout.AppLogs, 0o755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   layout.AppLogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(fileWriter, &slog.HandlerOptions{Level: level})), nil
}

// Discard returns a logger that drops everything. Used by tests and as the
// engines' fallback when no logger is injected.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
