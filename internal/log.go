package internal

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a structured logger writing JSON lines to a rotated
// logfile. The file lives next to the catalog so every repository carries
// its own history.
func NewLogger(path string) *slog.Logger {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     90, // days
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return slog.New(handler)
}
