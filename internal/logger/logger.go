// Package logger wraps charmbracelet/log the way the teacher does: a
// package-level *log.Logger with LOG_LEVEL-driven verbosity and
// printf-style convenience functions.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	Logger        *log.Logger
	currentWriter io.Writer = os.Stderr
)

func init() {
	Logger = log.New(os.Stderr)
	SetLevel(os.Getenv("LOG_LEVEL"))
}

func Info(msg interface{}, keyvals ...interface{})  { Logger.Info(msg, keyvals...) }
func Debug(msg interface{}, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }
func Warn(msg interface{}, keyvals ...interface{})  { Logger.Warn(msg, keyvals...) }
func Error(msg interface{}, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }
func Fatal(msg interface{}, keyvals ...interface{}) { Logger.Fatal(msg, keyvals...) }

func Infof(format string, args ...interface{})  { Logger.Infof(format, args...) }
func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }
func Warnf(format string, args ...interface{})  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Logger.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { Logger.Fatalf(format, args...) }

// SetLevel sets the log level from a string; unrecognized or empty values
// default to INFO.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		Logger.SetLevel(log.DebugLevel)
	case "WARN", "WARNING":
		Logger.SetLevel(log.WarnLevel)
	case "ERROR":
		Logger.SetLevel(log.ErrorLevel)
	case "FATAL":
		Logger.SetLevel(log.FatalLevel)
	default:
		Logger.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects logger output to a different writer, preserving level.
func SetOutput(w io.Writer) {
	currentWriter = w
	level := Logger.GetLevel()
	Logger = log.NewWithOptions(w, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05"})
	Logger.SetLevel(level)
}

// SetupFileLogging redirects logging to a persistent log file — system
// path when running as root, user path otherwise — mirroring the teacher's
// SetupFileLogging (internal/logger/logger.go) without the client/server
// path split that no longer applies to a single daemon.
func SetupFileLogging() (*os.File, error) {
	var logDir, logPath string

	if os.Geteuid() == 0 {
		logDir = "/var/log/katd"
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		logDir = filepath.Join(home, ".local", "share", "katd")
	}
	logPath = filepath.Join(logDir, "katd.log")

	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	if _, err := fmt.Fprintf(logFile, "\n%s: === katd session started ===\n", time.Now().Format("15:04:05")); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write to log file: %v\n", err)
	}

	SetOutput(logFile)

	Info("file logging initialized", "path", logPath)
	return logFile, nil
}

// Get returns the logger instance.
func Get() *log.Logger { return Logger }
