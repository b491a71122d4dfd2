// Package logging builds the slog loggers used by the server and the CLI.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Attribute keys shared across packages.
const (
	KeyComponent = "component"
	KeyError     = "error"
	KeyTraceID   = "trace_id"
	KeyUserID    = "user_id"
	KeyDuration  = "duration_ms"
)

const (
	ComponentServer    = "server"
	ComponentDatabase  = "database"
	ComponentAuth      = "auth"
	ComponentAnalytics = "analytics"
	ComponentEvents    = "events"
	ComponentImporter  = "importer"
	ComponentCLI       = "cli"
)

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New returns a logger writing to w (stderr when nil). format is json or console.
func New(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(level, format string, w io.Writer) *slog.Logger {
	logger := New(level, format, w)
	slog.SetDefault(logger)
	return logger
}

func WithComponent(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(KeyComponent, name)
}

// Err is the attribute used for errors; a nil error logs an empty string.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

type traceIDKey struct{}

// ContextWithTraceID returns ctx carrying the request trace id.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}
