package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tinted slog handler on stderr as the default logger.
// Keeping logs on stderr leaves stdout free for the answer and plan output.
func Setup(level string) {
	SetupWriter(os.Stderr, level)
}

// SetupWriter is Setup with an explicit destination, used by tests.
func SetupWriter(w io.Writer, level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
	})

	slog.SetDefault(slog.New(handler))
}
