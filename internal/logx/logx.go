// Package logx renders log/slog records as timestamped, level coloured lines
// suitable for a terminal log pane.
package logx

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// TimeFormat is the timestamp layout at the start of every line.
const TimeFormat = "2006-01-02 15:04:05"

// Options configures a Handler.
type Options struct {
	// Level is the minimum level written. Defaults to slog.LevelInfo.
	Level slog.Leveler
	// NoColor disables colour even when writing to a terminal.
	NoColor bool
}

// Handler writes one line per record:
//
//	[2006-01-02 15:04:05] INFO message key=value
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	out    *termenv.Output
	level  slog.Leveler
	prefix string
	attrs  string
}

// NewHandler returns a handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	var out *termenv.Output
	if opts.NoColor {
		out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	} else {
		out = termenv.NewOutput(w)
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{
		mu:    &sync.Mutex{},
		w:     w,
		out:   out,
		level: level,
	}
}

// New returns a logger backed by a Handler.
func New(w io.Writer, opts *Options) *slog.Logger {
	return slog.New(NewHandler(w, opts))
}

// LevelFromFlags maps the usual verbosity flags to a level.
// Verbose wins over quiet.
func LevelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(ts.Format(TimeFormat))
	b.WriteString("] ")
	b.WriteString(h.levelString(r.Level))
	b.WriteString(" ")
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})
	b.WriteString("\n")
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	h2 := *h
	h2.attrs += b.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix += name + "."
	return &h2
}

func (h *Handler) levelString(level slog.Level) string {
	var color string
	switch {
	case level >= slog.LevelError:
		color = "1"
	case level >= slog.LevelWarn:
		color = "3"
	case level >= slog.LevelInfo:
		color = "6"
	default:
		color = "8"
	}
	return h.out.String(level.String()).Foreground(h.out.Color(color)).String()
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, prefix, ga)
		}
		return
	}
	b.WriteString(" ")
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteString("=")
	b.WriteString(quote(a.Value.String()))
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
