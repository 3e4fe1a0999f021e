package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles come from a renderer
// bound to the handler's output, so they render as plain text unless that
// output is a color terminal.
type palette struct {
	key, text, number, yes, no, span lipgloss.Style
	trace, debug, info, warn, error  lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		span:   fg("5"),
		trace:  fg("8"),
		debug:  fg("4"),
		info:   fg("2"),
		warn:   fg("3").Bold(true),
		error:  fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler writes records for people rather than machines: key=value
// pairs on one line, or with json set, one indented field per line.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	prefix string      // dotted group path, with trailing dot
	attrs  []slog.Attr // added by WithAttrs, keys already qualified
	json   bool
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: makePalette(w),
		json:  json,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() == slog.KindGroup {
			group := slices.Clone(a.Value.Group())
			if a.Key != "" {
				for i := range group {
					group[i].Key = a.Key + "." + group[i].Key
				}
			}

			out = append(out, h.qualify(group)...)

			continue
		}

		if a.Equal(slog.Attr{}) {
			continue
		}

		a.Key = h.prefix + a.Key
		out = append(out, a)
	}

	return out
}

// builtin applies the ReplaceAttr hook to a built-in attribute.
func (h *prettyHandler) builtin(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	return a
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	type field struct {
		key, value string
	}

	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())
	add := func(a slog.Attr, style *lipgloss.Style) {
		if a.Equal(slog.Attr{}) {
			return
		}

		v := h.value(a.Value)
		if style != nil {
			v = style.Render(a.Value.String())
		}

		fields = append(fields, field{h.style.key.Render(a.Key), v})
	}

	if !r.Time.IsZero() {
		add(h.builtin(slog.Time(slog.TimeKey, r.Time)), nil)
	}

	level := h.style.level(r.Level)
	add(h.builtin(slog.Any(slog.LevelKey, r.Level)), &level)

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			add(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)), nil)
		}
	}

	add(slog.String(slog.MessageKey, r.Message), nil)

	for _, a := range h.attrs {
		add(a, nil)
	}

	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	for _, a := range h.qualify(attrs) {
		add(a, nil)
	}

	var b strings.Builder

	if h.json {
		b.WriteString("{\n")

		for i, f := range fields {
			if i > 0 {
				b.WriteString(",\n")
			}

			b.WriteString("  " + f.key + ": " + f.value)
		}

		b.WriteString("\n}\n")
	} else {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(f.key + "=" + f.value)
		}

		b.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, b.String())

	return err
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.number.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.span.Render(v.Duration().String())

	case slog.KindTime:
		return h.style.text.Render(v.Time().Format(time.RFC3339))

	default:
		return h.style.text.Render(v.String())
	}
}
