package repl

import (
	"bytes"
	"context"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

// inputName is the source name of lines typed into the REPL.
const inputName = "<repl>"

// session is the interpreter state behind a REPL: a persistent root scope
// together with the lines that built it.
type session struct {
	in         *lang.Interpreter
	out        *bytes.Buffer
	globals    map[string]lang.Value
	scripts    []*lang.AST
	transcript []string
	logger     log.Logger
}

// newSession returns a session whose root scope holds globals and the
// declarations of every script, run in order.
func newSession(
	ctx context.Context,
	globals map[string]lang.Value,
	scripts []*lang.AST,
	logger log.Logger,
) (*session, error) {
	s := &session{
		out:     new(bytes.Buffer),
		globals: globals,
		scripts: scripts,
		logger:  logger,
	}

	return s, s.reset(ctx)
}

// reset discards every binding made since the session started and runs the
// preloaded scripts again.
func (s *session) reset(ctx context.Context) error {
	s.in = lang.NewInterpreter(
		lang.WithGlobals(s.globals),
		lang.WithLogger(s.logger),
		lang.WithOutput(s.out),
	)
	s.transcript = nil

	for _, ast := range s.scripts {
		if err := s.in.Run(ctx, ast); err != nil {
			return err
		}
	}

	s.out.Reset()

	return nil
}

// eval parses and executes one input. It returns what the input printed and
// the value of its last statement. Inputs that succeed are recorded in the
// transcript. Bindings made before a failing statement are kept.
func (s *session) eval(ctx context.Context, input string) (string, lang.Value, error) {
	defer s.out.Reset()

	ast, err := lang.ParseString(ctx, input,
		lang.WithName(inputName),
		lang.WithLogger(s.logger),
	)
	if err != nil {
		return "", nil, err
	}

	v, err := s.in.Exec(ctx, ast.Stmts)

	s.logger.TraceContext(ctx, "repl eval",
		slog.Int("statement_count", len(ast.Stmts)),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		return s.out.String(), nil, err
	}

	s.transcript = append(s.transcript, input)

	return s.out.String(), v, nil
}

// replay resets the session and runs src as a single program, replacing the
// transcript with it.
func (s *session) replay(ctx context.Context, src string) (string, error) {
	if err := s.reset(ctx); err != nil {
		return "", err
	}

	out, _, err := s.eval(ctx, src)

	return out, err
}

// source returns the transcript as one program.
func (s *session) source() string {
	if len(s.transcript) == 0 {
		return ""
	}

	return strings.Join(s.transcript, "\n") + "\n"
}

// lookup returns the value bound to name in the root scope.
func (s *session) lookup(name string) (lang.Value, bool) {
	v, err := s.in.Globals().Get(name)

	return v, err == nil
}

// names returns the completion candidates: reserved words followed by every
// name bound in the root scope.
func (s *session) names() []string {
	seen := make(map[string]struct{})

	for _, name := range lang.Keywords() {
		seen[name] = struct{}{}
	}

	for _, name := range s.in.Globals().Names() {
		seen[name] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// display formats a result for echoing. Strings are quoted so they can be
// told apart from other values.
func display(v lang.Value) string {
	if s, ok := v.(lang.String); ok {
		return strconv.Quote(string(s))
	}

	return v.String()
}
