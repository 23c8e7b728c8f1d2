// Package logging configures the structured logger the host threads through
// its components.
package logging

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New builds a logger writing to stderr. The level comes from the CLI flag,
// falling back to the DRK_LOG_LEVEL environment variable, then to warn so
// plugin output stays the foreground of a normal run.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if level == "" {
		level = os.Getenv("DRK_LOG_LEVEL")
	}
	logger.SetLevel(parseLevel(level))
	return logger
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}
