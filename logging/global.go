package logging

import (
	"log/slog"
	"os"
	"strings"
)

// LoggingService owns the application logger and the file it writes to
type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger with default retention and level.
// An empty logDir logs to the console only.
func InitLogger(logDir string) {
	InitLoggerWithConfig(logDir, slog.LevelInfo, 4, 100*1024*1024)
}

// InitLoggerWithConfig initializes the global logger
func InitLoggerWithConfig(logDir string, level slog.Level, retentionWeeks int, maxFileSize int64) {
	if DefaultLoggingService != nil && DefaultLoggingService.file != nil {
		_ = DefaultLoggingService.file.Close()
	}

	logger, file := SetupLogger(logDir, level, retentionWeeks, maxFileSize)
	DefaultLoggingService = &LoggingService{
		Logger: logger,
		file:   file,
	}
	slog.SetDefault(logger)
}

// Close flushes and closes the log file, if any
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.file == nil {
		return nil
	}
	err := DefaultLoggingService.file.Close()
	DefaultLoggingService.file = nil
	return err
}

// ParseLevel maps a configured level name to a slog level, info by default
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger(slog.LevelDebug).Debug(msg, args...)
}

// logger returns the global logger, or a console fallback if not initialized
func logger(level slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return DefaultLoggingService.Logger
}

// Logger returns the global logger, or a console logger if not initialized
func Logger() *slog.Logger {
	return logger(slog.LevelInfo)
}
