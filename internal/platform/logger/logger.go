package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger using slog. The service name is
// attached to every record so logs from the three binaries can be told apart.
func New(service string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With("service", service)
}
