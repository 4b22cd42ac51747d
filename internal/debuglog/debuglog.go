// ABOUTME: File-backed structured logger so TUI rendering is never corrupted
// ABOUTME: Wraps log/slog writing to debug.log in the config directory

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init routes log output to debug.log under the given config directory.
// Empty configDir leaves logging disabled. LOG_LEVEL controls verbosity
// (debug, info, warn, error; default info).
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	path := filepath.Join(configDir, "debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}))
	return nil
}

// Close flushes and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseLevel converts a string log level to slog.Level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Debug logs at debug level
func Debug(msg string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Debug(msg, args...)
}

// Info logs at info level
func Info(msg string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Info(msg, args...)
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Warn(msg, args...)
}

// Error logs an error with context, ignoring nil errors
func Error(msg string, err error, args ...any) {
	if err == nil {
		return
	}
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Error(msg, append([]any{"error", err}, args...)...)
}
