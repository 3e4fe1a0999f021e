package log

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Level is the severity of a log record. It extends [slog.Level] with a
// trace level below debug, used for per-node interpreter tracing.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the minimum level of a new [Logger].
const DefaultLevel = LevelInfo

var levelNames = [...]struct {
	name  string
	level Level
}{
	{"trace", LevelTrace},
	{"debug", LevelDebug},
	{"info", LevelInfo},
	{"warn", LevelWarn},
	{"error", LevelError},
}

// String returns the lowercase name of a defined level, or the [slog.Level]
// form (such as "INFO+2") of any other.
func (l Level) String() string {
	for _, n := range levelNames {
		if n.level == l {
			return n.name
		}
	}

	return slog.Level(l).String()
}

// Levels returns the names of all defined levels, lowest first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively. Besides the names
// returned by [Levels], every form accepted by [slog.Level.UnmarshalText]
// is recognized. Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	for _, n := range levelNames {
		if strings.EqualFold(s, n.name) {
			return n.level
		}
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects the layout of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format of a new [Logger].
const DefaultFormat = FormatText

var formatNames = [...]string{
	FormatText: "text",
	FormatJSON: "json",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return "unknown"
}

// Formats returns the names of all defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatNames {
			if !yield(name) {
				return
			}
		}
	}
}

// ParseFormat parses a format name, case-insensitively. Unrecognized input
// yields [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)

	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(f)
		}
	}

	return DefaultFormat
}

// FormatTime renders the timestamp of a log record. An empty result omits
// the timestamp.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the timestamp layout of a new [Logger].
const DefaultTimeLayout = time.RFC3339

// config is the immutable configuration of a [Logger]. Options return
// modified copies.
type config struct {
	output io.Writer
	stamp  FormatTime
	level  Level
	format Format
	caller bool
	pretty bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	if w == nil {
		w = io.Discard
	}

	return apply(config{
		output: w,
		stamp:  makeFormatTimeFunc(DefaultTimeLayout),
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: true,
	}, opts...)
}

// replaceAttr renders the built-in time and level attributes.
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			s := c.stamp(t)
			if s == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(s)
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty:
		return newPrettyHandler(c.output, opts, c.format == FormatJSON)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// timeLayouts maps layout names, reduced to lowercase letters and digits,
// to their layouts. "none" disables timestamps.
var timeLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rfc822":      time.RFC822,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
	"none":        "",
}

// makeFormatTimeFunc returns a formatter for a named layout from
// timeLayouts, or for layout itself, verbatim, if it names none of them.
func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if named, ok := timeLayouts[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
