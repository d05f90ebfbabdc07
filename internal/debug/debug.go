// Package debug provides context-based debug flags with structured logging.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey string

const (
	debugKey       contextKey = "debug_enabled"
	serverDebugKey contextKey = "server_debug_enabled"
)

// WithDebug returns a context with client debug logging enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if client debug logging is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// WithServerDebug asks the server for debug output on every request made with ctx.
func WithServerDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, serverDebugKey, enabled)
}

// ServerDebugEnabled reports whether WithServerDebug was set.
func ServerDebugEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(serverDebugKey).(bool); ok {
		return v
	}
	return false
}

// SetupLogger configures slog based on debug mode.
func SetupLogger(debugEnabled bool) {
	slog.SetDefault(NewLogger(os.Stderr, debugEnabled))
}

// NewLogger returns a tint-backed logger writing to w.
func NewLogger(w io.Writer, debugEnabled bool) *slog.Logger {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  debugEnabled,
	}))
}
