// Package logger provides centralized slog.Logger construction with
// configurable level and output format (text, JSON or pretty).
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Redacted replaces the value of secret attributes.
const Redacted = "[REDACTED]"

var secretKeys = map[string]bool{
	"token":         true,
	"access_token":  true,
	"refresh_token": true,
	"authorization": true,
	"password":      true,
}

// New creates a *slog.Logger configured with the given level and format.
// Level: "debug", "info", "warn", "error" (default: "info").
// Format: "json", "pretty" or "text" (default: "text").
// Output goes to stderr.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a *slog.Logger writing to w.
// Useful for testing or redirecting output.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "pretty":
		handler = log.NewWithOptions(w, log.Options{
			Level:           charmLevel(lvl),
			ReportTimestamp: true,
		})
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(&redactHandler{next: handler})
}

// ParseLevel converts a level string to slog.Level.
// Recognized values: "debug", "warn", "error". Everything else returns LevelInfo.
func ParseLevel(level string) slog.Level {
	switch level {
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

func charmLevel(l slog.Level) log.Level {
	switch l {
	case slog.LevelDebug:
		return log.DebugLevel
	case slog.LevelWarn:
		return log.WarnLevel
	case slog.LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// redactHandler masks secret attributes before passing records on.
type redactHandler struct {
	next slog.Handler
}

func (h *redactHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redact(a)
	}
	return &redactHandler{next: h.next.WithAttrs(masked)}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, g := range group {
			masked[i] = redact(g)
		}
		return slog.Group(a.Key, masked...)
	}
	if secretKeys[strings.ToLower(a.Key)] && a.Value.String() != "" {
		return slog.String(a.Key, Redacted)
	}
	return a
}
