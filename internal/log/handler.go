package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Home is the replacement for the home directory prefix.
const Home = "~"

// Handler is a slog.Handler that rewrites string attributes starting
// with the user's home directory before passing records on.
type Handler struct {
	handler slog.Handler
	home    string
}

// NewHandler wraps handler. A nil handler falls back to a text handler on
// stderr.
func NewHandler(handler slog.Handler) *Handler {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return newHandler(handler, home)
}

func newHandler(handler slog.Handler, home string) *Handler {
	home = filepath.Clean(home)
	if home == "." || home == string(filepath.Separator) {
		home = ""
	}
	return &Handler{handler: handler, home: home}
}

// Enabled reports whether the wrapped handler handles records at level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record attributes and the message, then passes the
// record to the wrapped handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	shortened := slog.NewRecord(r.Time, r.Level, h.shorten(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		shortened.AddAttrs(h.shortenAttr(a))
		return true
	})
	return h.handler.Handle(ctx, shortened)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	shortened := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		shortened[i] = h.shortenAttr(a)
	}
	return &Handler{handler: h.handler.WithAttrs(shortened), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{handler: h.handler.WithGroup(name), home: h.home}
}

func (h *Handler) shortenAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		shortened := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			shortened[i] = h.shortenAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(shortened...)}
	case slog.KindString:
		return slog.String(a.Key, h.shorten(a.Value.String()))
	default:
		return a
	}
}

// shorten replaces every occurrence of the home directory that ends at a
// path boundary.
func (h *Handler) shorten(s string) string {
	if h.home == "" || !strings.Contains(s, h.home) {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, h.home)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := i + len(h.home)
		b.WriteString(s[:i])
		if end == len(s) || s[end] == filepath.Separator {
			b.WriteString(Home)
		} else {
			b.WriteString(h.home)
		}
		s = s[end:]
	}
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// New creates a text logger writing to w.
// If verbose is true the level is Debug, otherwise Warn.
func New(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a logger that writes JSON lines to w, for log
// aggregation of unattended launches.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewHandler(slog.NewJSONHandler(w, opts)))
}
