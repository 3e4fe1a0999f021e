package lang

import (
	"io"
	"os"

	"github.com/ardnew/nv/log"
)

// config holds settings shared by the parser and the interpreter.
type config struct {
	logger  log.Logger
	output  io.Writer
	onError func(error)
	globals map[string]Value
	shared  map[string]struct{}
	name    string
}

// Option configures parsing or evaluation.
type Option func(*config)

func makeConfig(opts ...Option) config {
	cfg := config{output: os.Stdout}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithLogger sets the logger for parse, optimizer and evaluation tracing.
// The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithName sets the source name (usually a file path) used in diagnostics.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithOutput sets the writer that print writes to. The default is
// [os.Stdout]; a nil writer discards output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithErrorHandler sets a function called with each runtime error as soon as
// the failing top-level statement is abandoned.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) { c.onError = fn }
}

// WithGlobals predefines variables in the interpreter's root scope.
func WithGlobals(vals map[string]Value) Option {
	return func(c *config) { c.globals = vals }
}

// WithShared tells the optimizer that the optimized program shares its root
// scope with asts. Every name those programs mention is treated as read and
// written by them, so stores to it are kept and its value is not assumed.
func WithShared(asts ...*AST) Option {
	return func(c *config) {
		if c.shared == nil {
			c.shared = make(map[string]struct{})
		}

		for _, ast := range asts {
			for _, s := range ast.Stmts {
				inspect(s, func(n Node) bool {
					switch n := n.(type) {
					case *Ident:
						c.shared[n.Name] = struct{}{}
					case *Let:
						c.shared[n.Name] = struct{}{}
					case *Assign:
						c.shared[n.Name] = struct{}{}
					case *Func:
						c.shared[n.Name] = struct{}{}
					}

					return true
				})
			}
		}
	}
}
