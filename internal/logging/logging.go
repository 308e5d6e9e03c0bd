// Package logging builds the console logger from configuration strings.
package logging

import (
	"os"

	"github.com/charmbracelet/log"

	"godo/internal/config"
)

// New returns a leveled logger writing to stderr, so user-facing output on
// stdout stays clean.
func New(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           ParseLevel(cfg.LogLevel),
		Formatter:       ParseFormatter(cfg.LogFormat),
		ReportTimestamp: cfg.LogTimestamps,
		Prefix:          "godo",
	})
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log
// Formatter.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
