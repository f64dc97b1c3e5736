// Package testutil provides logging helpers for parser and dialect tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes to t.Log, so parser
// traces only show up for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Entry is one recorded log call.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that keeps every record for later
// assertions. It is safe for concurrent use.
type LogRecorder struct {
	mu      sync.Mutex
	entries []Entry
	attrs   []slog.Attr
	parent  *LogRecorder
}

// NewLogRecorder returns a recorder and a debug-level logger writing to it.
func NewLogRecorder() (*LogRecorder, *slog.Logger) {
	r := &LogRecorder{}
	return r, slog.New(r)
}

// Enabled reports true for every level.
func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle records rec together with attributes added through WithAttrs.
func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	e := Entry{Level: rec.Level, Message: rec.Message, Attrs: make(map[string]any)}
	for _, a := range r.attrs {
		e.Attrs[a.Key] = a.Value.Any()
	}
	rec.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})

	root := r.root()
	root.mu.Lock()
	root.entries = append(root.entries, e)
	root.mu.Unlock()
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (r *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogRecorder{
		attrs:  append(append([]slog.Attr(nil), r.attrs...), attrs...),
		parent: r.root(),
	}
}

// WithGroup is not supported; groups are flattened.
func (r *LogRecorder) WithGroup(string) slog.Handler { return r }

// Entries returns a copy of the recorded entries.
func (r *LogRecorder) Entries() []Entry {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	return append([]Entry(nil), root.entries...)
}

// Messages returns the message of every recorded entry, in order.
func (r *LogRecorder) Messages() []string {
	entries := r.Entries()
	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = e.Message
	}
	return msgs
}

func (r *LogRecorder) root() *LogRecorder {
	if r.parent != nil {
		return r.parent
	}
	return r
}
