package logger

import (
	"io"
	"log/slog"
	"os"
)

// InitJSONLogger configures and sets the default slog logger to use JSON format on stdout.
// Debug records are emitted only when debug is true.
func InitJSONLogger(debug bool) {
	InitJSONLoggerWithWriter(os.Stdout, debug)
}

// InitJSONLoggerWithWriter is InitJSONLogger with a custom destination.
func InitJSONLoggerWithWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
