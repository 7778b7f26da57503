package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger creates a dual-output logger: pterm-styled records on stderr and
// JSON records in logFile. The terminal only shows warnings and errors unless
// verbose is set, so the interactive narration stays readable.
// Returns the logger and a cleanup function to close the file.
func SetupLogger(logFile string, level slog.Level, verbose bool) (*slog.Logger, func() error) {
	termLevel := slog.LevelWarn
	if verbose {
		termLevel = level
	}
	termHandler := newTerminalHandler(os.Stderr, termLevel)

	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		slog.New(termHandler).Error("failed to create log directory, using stderr only", "error", err, "file", logFile)
		return slog.New(termHandler), func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		slog.New(termHandler).Error("failed to open log file, using stderr only", "error", err, "file", logFile)
		return slog.New(termHandler), func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	logger := slog.New(slogmulti.Fanout(termHandler, fileHandler))

	return logger, file.Close
}

// SetupLoggerWithWriters creates a logger with custom writers (for testing).
func SetupLoggerWithWriters(term, file io.Writer, level slog.Level) *slog.Logger {
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(newTerminalHandler(term, level), fileHandler))
}

func newTerminalHandler(w io.Writer, level slog.Level) slog.Handler {
	logger := pterm.DefaultLogger.
		WithWriter(w).
		WithLevel(ptermLevel(level))
	return pterm.NewSlogHandler(logger)
}

func ptermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
