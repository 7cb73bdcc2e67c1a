package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu   sync.RWMutex
	root *logrus.Logger
)

// FileLogger creates a logger writing to both stderr and the given file,
// creating parent directories as needed. The returned file must be closed
// by the caller on shutdown.
func FileLogger(level logrus.Level, logPath string) (*os.File, *logrus.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	logger.SetFormatter(&logrus.JSONFormatter{})

	mu.Lock()
	root = logger
	mu.Unlock()

	return f, logger, nil
}

// ConsoleLogger creates a plain stderr logger, used by tests and tools
// that never touch the process log file.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	return logger
}

// Level reports the current minimum severity of the process logger.
func Level() logrus.Level {
	mu.RLock()
	defer mu.RUnlock()
	if root == nil {
		return logrus.ErrorLevel
	}
	return root.GetLevel()
}

// SetLevel adjusts the minimum severity of the process logger at runtime.
// Business logic must go through this mutator rather than touching the
// logger instance.
func SetLevel(level logrus.Level) {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		return
	}
	root.SetLevel(level)
}

// ParseLevel maps the externally visible level names onto logrus levels.
func ParseLevel(name string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent":
		return logrus.PanicLevel, true
	case "error":
		return logrus.ErrorLevel, true
	case "warn", "warning":
		return logrus.WarnLevel, true
	case "info":
		return logrus.InfoLevel, true
	case "debug":
		return logrus.DebugLevel, true
	default:
		return logrus.ErrorLevel, false
	}
}

// LevelName is the inverse of ParseLevel.
func LevelName(level logrus.Level) string {
	switch level {
	case logrus.PanicLevel:
		return "silent"
	case logrus.ErrorLevel:
		return "error"
	case logrus.WarnLevel:
		return "warn"
	case logrus.InfoLevel:
		return "info"
	case logrus.DebugLevel:
		return "debug"
	default:
		return "error"
	}
}
