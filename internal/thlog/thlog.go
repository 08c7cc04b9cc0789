// Package thlog sets up structured logging for the thyrion CLI: a
// console handler plus, in verbose mode, an in-memory ring buffer fanned
// out alongside it via slog-multi, and a thin wrapper that remembers the
// most recent error-level message so callers can surface "what went
// wrong" without re-deriving it from a wrapped error chain.
package thlog

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
)

var lastErr atomic.Value // holds string

// New builds the root logger. In verbose mode, debug-level records are
// enabled and also captured into an in-memory ring retrievable with
// RingSnapshot; otherwise only info-and-above go to the console.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	tracked := &errorTrackingHandler{Handler: console}

	var handler slog.Handler = tracked
	if verbose {
		handler = slogmulti.Fanout(tracked, globalRing)
	}

	return slog.New(handler)
}

// LastError returns the message of the most recent error-level log
// record, if any has been logged yet.
func LastError() (string, bool) {
	v := lastErr.Load()
	if v == nil {
		return "", false
	}
	return v.(string), true
}

type errorTrackingHandler struct {
	slog.Handler
}

func (h *errorTrackingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		lastErr.Store(r.Message)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *errorTrackingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorTrackingHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *errorTrackingHandler) WithGroup(name string) slog.Handler {
	return &errorTrackingHandler{Handler: h.Handler.WithGroup(name)}
}

const ringCapacity = 200

var globalRing = &ringHandler{}

// ringHandler is a slog.Handler that keeps the last ringCapacity
// formatted records in memory, for `--verbose` inspection without
// re-running with a file redirect.
type ringHandler struct {
	mu      sync.Mutex
	entries []string
}

func (h *ringHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *ringHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, r.Level.String()+" "+r.Message)
	if len(h.entries) > ringCapacity {
		h.entries = h.entries[len(h.entries)-ringCapacity:]
	}
	return nil
}

func (h *ringHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *ringHandler) WithGroup(string) slog.Handler      { return h }

// RingSnapshot returns a copy of whatever the verbose-mode ring buffer
// currently holds.
func RingSnapshot() []string {
	globalRing.mu.Lock()
	defer globalRing.mu.Unlock()
	out := make([]string, len(globalRing.entries))
	copy(out, globalRing.entries)
	return out
}
