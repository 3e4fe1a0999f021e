package log

import (
	"io"
)

// Option modifies a logger configuration.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithOutput sets the writer that receives log records. A nil writer
// discards them.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel sets the minimum level of records that are written.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record layout.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout. The layout is either a name
// such as "RFC3339", "kitchen" or "ms", matched ignoring case and
// punctuation, or a [time.Time.Format] layout used verbatim. An empty
// layout, or "none", omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.stamp = makeFormatTimeFunc(layout)

		return c
	}
}

// WithCaller includes the source position of the logging call.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty enables colorized, human-oriented record layouts. Colors are
// only emitted when the output is a terminal that supports them.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}
