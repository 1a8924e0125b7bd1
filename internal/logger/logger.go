// Package logger wires structured logging for the aitoolbox CLI and its
// packages on top of charmbracelet/log.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the process-wide logger. Packages that want a prefix should use
// Component instead of logging through Logger directly.
var Logger *log.Logger

// logFile is the file opened by the last Configure, if any.
var logFile *os.File

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.WarnLevel)
}

// Configure replaces the global logger, closing a log file opened by a
// previous call. Level precedence: argument > AITOOLBOX_LOG_LEVEL > warn.
func Configure(level string, path string) error {
	if level == "" {
		level = os.Getenv("AITOOLBOX_LOG_LEVEL")
	}

	var (
		output io.Writer = os.Stderr
		file   *os.File
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		file, output = f, f
	}

	_ = Close()
	logFile = file
	Logger = log.NewWithOptions(output, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: path != "",
	})
	return nil
}

// Close closes the log file opened by Configure and points the logger back
// at stderr. It is a no-op when logging to stderr.
func Close() error {
	if logFile == nil {
		return nil
	}
	f := logFile
	logFile = nil
	Logger = log.NewWithOptions(os.Stderr, log.Options{Level: Logger.GetLevel()})
	return f.Close()
}

// SetOutput points the global logger at w, keeping its level. Tests use it
// to capture log lines.
func SetOutput(w io.Writer) {
	lvl := Logger.GetLevel()
	Logger = log.New(w)
	Logger.SetTimeFormat("")
	Logger.SetLevel(lvl)
}

// ParseLevel converts a level name to a log.Level, defaulting to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// Component returns a child of the global logger tagged with a prefix,
// e.g. "update" or "bridge".
func Component(name string) *log.Logger {
	return Logger.WithPrefix(name)
}
