package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/nv/lang"
)

// reporter renders errors against the source text they refer to. Styles come
// from a renderer bound to the output, so color is only emitted when the
// output is a terminal.
type reporter struct {
	w      io.Writer
	name   string
	src    string
	loc    lipgloss.Style
	level  lipgloss.Style
	gutter lipgloss.Style
	caret  lipgloss.Style
	note   lipgloss.Style
}

func newReporter(w io.Writer, name, src string) reporter {
	r := lipgloss.NewRenderer(w)

	return reporter{
		w:      w,
		name:   name,
		src:    src,
		loc:    r.NewStyle().Bold(true),
		level:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		gutter: r.NewStyle().Foreground(lipgloss.Color("8")),
		caret:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		note:   r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Report writes a human readable description of err to w. Every diagnostic of
// a syntax error and every failure joined into a runtime error is written as
// its own entry, quoting the source line it points at.
func Report(w io.Writer, err error, name, src string) {
	if err == nil {
		return
	}

	r := newReporter(w, name, src)

	var syn *lang.SyntaxError
	if errors.As(err, &syn) {
		for _, d := range syn.Diagnostics {
			r.entry(d.Message, d.Span, true)

			for _, l := range d.Labels {
				line, col := l.Span.Position(src)
				fmt.Fprintf(w, "  %s\n", r.note.Render(
					fmt.Sprintf("note: while parsing %s starting at %d:%d", l.Production, line, col),
				))
			}
		}

		return
	}

	for _, e := range leaves(err) {
		var le *lang.Error
		if errors.As(e, &le) {
			if span, ok := le.Span(); ok {
				r.entry(e.Error(), span, true)

				continue
			}
		}

		r.entry(e.Error(), lang.Span{}, false)
	}
}

// leaves flattens errors joined with [errors.Join].
func leaves(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, leaves(e)...)
		}

		return out
	}

	return []error{err}
}

// entry writes one located message, followed by the source line and a caret
// underline when located is set.
func (r reporter) entry(msg string, span lang.Span, located bool) {
	if !located {
		fmt.Fprintf(r.w, "%s %s\n", r.level.Render("error:"), msg)

		return
	}

	line, col := span.Position(r.src)

	loc := strconv.Itoa(line) + ":" + strconv.Itoa(col)
	if r.name != "" {
		loc = r.name + ":" + loc
	}

	fmt.Fprintf(r.w, "%s %s %s\n", r.loc.Render(loc+":"), r.level.Render("error:"), msg)

	text, ok := sourceLine(r.src, line)
	if !ok {
		return
	}

	num := strconv.Itoa(line)
	pad := strings.Repeat(" ", len(num))

	start := min(max(span.Start, 0), len(r.src))
	end := min(max(span.End, start), len(r.src))

	width := utf8.RuneCountInString(r.src[start:end])
	if rest := utf8.RuneCountInString(text) - col + 1; width > rest {
		width = rest
	}

	fmt.Fprintf(r.w, "%s %s\n", r.gutter.Render(num+" |"), text)
	fmt.Fprintf(r.w, "%s %s%s\n",
		r.gutter.Render(pad+" |"),
		strings.Repeat(" ", col-1),
		r.caret.Render(strings.Repeat("^", max(width, 1))),
	)
}

// sourceLine returns the 1-based line of src without its line terminator.
func sourceLine(src string, line int) (string, bool) {
	for i, text := range strings.Split(src, "\n") {
		if i+1 == line {
			return strings.TrimRight(text, "\r"), true
		}
	}

	return "", false
}
