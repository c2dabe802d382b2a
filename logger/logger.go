package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"museum_recommender/config"
)

// Logger is the process-wide structured logger.
var Logger *slog.Logger

// InitSlog wires slog according to the log section of the config.
func InitSlog(cfg *config.Config) error {
	level := cfg.Log.Level
	format := cfg.Log.Format
	output := cfg.Log.Output
	filePath := cfg.Log.FilePath

	if filePath != "" {
		logDir := filepath.Dir(filePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
	}

	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer io.Writer
	switch strings.ToLower(output) {
	case "file":
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writer = file
	case "both":
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writer = io.MultiWriter(os.Stdout, file)
	default:
		writer = os.Stdout
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	return nil
}

// Init initializes the logging system from the config.
func Init(cfg *config.Config) error {
	return InitSlog(cfg)
}

func active() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	active().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	active().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	active().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	active().Error(msg, args...)
}
