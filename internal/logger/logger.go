// Package logger provides the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel names the environment variable consulted when no level flag is given.
const EnvLevel = "SEMBUMP_LOG_LEVEL"

// Logger is the global logger instance.
var Logger = newLogger(os.Stderr, log.InfoLevel)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.New(w)
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure sets the level and destination of the global logger.
// Precedence for the level: argument > SEMBUMP_LOG_LEVEL > info.
func Configure(level string, w io.Writer) error {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	Logger = newLogger(w, lvl)
	return nil
}

// ParseLevel converts a level name; empty means info.
func ParseLevel(level string) (log.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return log.InfoLevel, nil
	}
	if level == "warning" {
		level = "warn"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", level)
	}
	return lvl, nil
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg any, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	Logger.Debugf(format, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg any, keyvals ...any) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg any, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg any, keyvals ...any) {
	Logger.Error(msg, keyvals...)
}
