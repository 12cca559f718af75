// Package logger provides the process-wide logger used by perfreport.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	globalLogger = newLogger(os.Stderr, logrus.WarnLevel)
	logFile      *os.File
	mu           sync.Mutex
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
	return l
}

// Init redirects the global logger to the specified log file path.
// An empty path keeps logging on stderr.
func Init(logPath string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if logPath == "" {
		globalLogger = newLogger(os.Stderr, level)
		return nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	globalLogger = newLogger(f, level)

	return nil
}

// SetOutput sends the global logger to w, closing any log file.
func SetOutput(w io.Writer, level logrus.Level) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = newLogger(w, level)
}

// Close closes the log file and resets logging to stderr.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = newLogger(os.Stderr, logrus.WarnLevel)
}

// WithFields returns an entry carrying structured fields, e.g. the run name.
func WithFields(fields logrus.Fields) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()
	return globalLogger.WithFields(fields)
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Infof(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Debugf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Errorf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.Warnf(format, v...)
}
