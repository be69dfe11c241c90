package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// HomePrefix replaces the home directory in shortened paths.
const HomePrefix = "~"

// PathHandler wraps a slog.Handler and rewrites string attributes that
// point below the home directory.
type PathHandler struct {
	handler slog.Handler
	home    string
}

// NewPathHandler wraps handler. An empty home disables rewriting; a nil
// handler falls back to the default logger's handler.
func NewPathHandler(handler slog.Handler, home string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if home != "" {
		home = filepath.Clean(home)
	}
	return &PathHandler{handler: handler, home: home}
}

// Enabled reports whether the wrapped handler handles level.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it on.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.shortenAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	shortened := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		shortened[i] = h.shortenAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(shortened), home: h.home}
}

// WithGroup implements slog.Handler.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), home: h.home}
}

func (h *PathHandler) shortenAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		shortened := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			shortened[i] = h.shortenAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(shortened...)}
	case slog.KindString:
		return slog.String(a.Key, ShortenPath(a.Value.String(), h.home))
	default:
		return a
	}
}

// ShortenPath replaces a leading home directory in path with "~". Strings
// that are not below home are returned unchanged. Sources of the form
// "db#table" are handled as well.
func ShortenPath(path, home string) string {
	if home == "" || home == string(filepath.Separator) || path == "" {
		return path
	}
	if path == home {
		return HomePrefix
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return HomePrefix + string(filepath.Separator) + rest
	}
	return path
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger returns a text logger writing to w. Verbose lowers the level
// from Warn to Debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewPathHandler(slog.NewTextHandler(w, opts), xdg.Home))
}

// NewJSONLogger is NewLogger with JSON output.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(verbose)}
	return slog.New(NewPathHandler(slog.NewJSONHandler(w, opts), xdg.Home))
}
