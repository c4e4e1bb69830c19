// Package log builds the slog logger shared by the CLI commands.
//
// Console records go to the supplied writer (stderr in the CLI) so that
// command output on stdout stays machine readable. Settings come from:
//   - MIRASCOPE_LOG_LEVEL=debug|info|warn|error (default warn)
//   - MIRASCOPE_LOG_FORMAT=text|json (default text)
//   - MIRASCOPE_LOG_FILE=<path> (adds a rotated JSON file log)
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level  string
	Format string
	File   string
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:  getenv("MIRASCOPE_LOG_LEVEL", "warn"),
		Format: getenv("MIRASCOPE_LOG_FORMAT", "text"),
		File:   os.Getenv("MIRASCOPE_LOG_FILE"),
	}
}

// New returns a logger writing to w and, when opts.File is set, to a rotating file.
// The returned closer releases the file; it is a no-op otherwise.
func New(opts Options, w io.Writer) (*slog.Logger, io.Closer) {
	lvl := parseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, handlerOpts)
	} else {
		console = slog.NewTextHandler(w, handlerOpts)
	}

	var closer io.Closer = nopCloser{}
	h := console
	if strings.TrimSpace(opts.File) != "" {
		rotating := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		closer = rotating
		h = &multi{hs: []slog.Handler{console, slog.NewJSONHandler(rotating, handlerOpts)}}
	}

	return slog.New(h).With(slog.String("app", "mirascope")), closer
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(l *slog.Logger, name string) *slog.Logger {
	return l.With(slog.String("component", name))
}

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseLevel converts a string to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multi fans out log records to multiple handlers.
type multi struct{ hs []slog.Handler }

func (m *multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multi) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &multi{hs: res}
}

func (m *multi) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &multi{hs: res}
}
