// Package logging provides a shared, structured logger for the cli-timeline application.
//
// It wraps the standard library's [log/slog] package and provides a single
// initialization point so all components share the same output handler and
// log level. The log level can be controlled at startup via the
// CLI_TIMELINE_LOG_LEVEL environment variable (debug, info, warn, error).
// If unset, the default level is INFO.
//
// The terminal UI owns stdout and redraws the whole screen, so log lines
// written to stderr are easily lost behind the alt screen. Setting
// CLI_TIMELINE_LOG_FILE sends all output to that file instead.
//
// Usage:
//
//	log := logging.New("layout")       // creates a logger tagged with component="layout"
//	log.Warn("restore layout", "error", err)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	// EnvLogLevel selects the minimum level written by every component logger.
	EnvLogLevel = "CLI_TIMELINE_LOG_LEVEL"

	// EnvLogFile redirects log output to a file (appended, created 0600).
	EnvLogFile = "CLI_TIMELINE_LOG_FILE"
)

var (
	// initLogger ensures the base logger is created exactly once across all
	// goroutines, even if multiple components call New concurrently.
	initLogger sync.Once

	// baseLogger is the singleton logger instance shared by all components.
	// Component-specific loggers are derived from this via With().
	baseLogger *slog.Logger
)

// New returns a structured logger scoped to the given component name.
//
// The component name is added as a "component" attribute to every log entry
// produced by the returned logger. If component is empty, the base logger is
// returned without any additional attributes.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		baseLogger = slog.New(slog.NewTextHandler(openOutput(os.Getenv(EnvLogFile)), &slog.HandlerOptions{
			Level: parseLevel(os.Getenv(EnvLogLevel)),
		}))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// openOutput resolves the log destination. An unwritable log file falls back
// to stderr rather than failing startup.
func openOutput(path string) io.Writer {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return os.Stderr
	}
	return f
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "warn", "warning" → slog.LevelWarn
//   - "error"           → slog.LevelError
//   - anything else     → slog.LevelInfo (the default)
func parseLevel(value string) slog.Level {
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
