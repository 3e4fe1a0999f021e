package repl

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

func newTestSession(t *testing.T, scripts ...string) *session {
	t.Helper()

	asts := make([]*lang.AST, 0, len(scripts))

	for _, src := range scripts {
		ast, err := lang.ParseString(t.Context(), src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}

		asts = append(asts, ast)
	}

	s, err := newSession(t.Context(), map[string]lang.Value{"host": lang.String("nv")}, asts, log.Logger{})
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}

	return s
}

func TestSession_Eval(t *testing.T) {
	s := newTestSession(t, `let base = 10; print("loaded")`)

	tests := []struct {
		input  string
		output string
		result string
	}{
		{"let x = base + 1", "", "undefined"},
		{"x * 2", "", "22"},
		{`print(host, x); x`, "nv 11\n", "11"},
		{"fn twice(n) { return n * 2 }", "", "undefined"},
		{"twice(x)", "", "22"},
		{"x = 5; twice(x)", "", "10"},
	}

	for _, tt := range tests {
		out, v, err := s.eval(t.Context(), tt.input)
		if err != nil {
			t.Fatalf("eval(%q): %v", tt.input, err)
		}

		if out != tt.output || v.String() != tt.result {
			t.Errorf("eval(%q) = %q, %s; want %q, %s", tt.input, out, v, tt.output, tt.result)
		}
	}

	if got := len(s.transcript); got != len(tests) {
		t.Errorf("transcript has %d lines, want %d", got, len(tests))
	}
}

func TestSession_EvalErrors(t *testing.T) {
	s := newTestSession(t)

	_, _, err := s.eval(t.Context(), "let = 1")

	var syn *lang.SyntaxError
	if !errors.As(err, &syn) {
		t.Errorf("syntax error = %v", err)
	}

	out, _, err := s.eval(t.Context(), `let a = 1; print("before"); missing`)
	if !errors.Is(err, lang.ErrUndefinedVariable) {
		t.Errorf("runtime error = %v", err)
	}

	if out != "before\n" {
		t.Errorf("output before failure = %q", out)
	}

	if _, ok := s.lookup("a"); !ok {
		t.Error("binding made before the failure was lost")
	}

	if len(s.transcript) != 0 {
		t.Errorf("failed inputs recorded: %q", s.transcript)
	}
}

func TestSession_ResetAndReplay(t *testing.T) {
	s := newTestSession(t, "let base = 1")

	if _, _, err := s.eval(t.Context(), "let y = base"); err != nil {
		t.Fatal(err)
	}

	if err := s.reset(t.Context()); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.lookup("y"); ok {
		t.Error("reset kept a session variable")
	}

	if _, ok := s.lookup("base"); !ok {
		t.Error("reset lost a preloaded variable")
	}

	out, err := s.replay(t.Context(), "let z = base + 1\nprint(z)\n")
	if err != nil || out != "2\n" {
		t.Errorf("replay = %q, %v", out, err)
	}

	if got := s.source(); got != "let z = base + 1\nprint(z)\n\n" {
		t.Errorf("source() = %q", got)
	}
}

func TestSession_Names(t *testing.T) {
	s := newTestSession(t, "let zeta = 1")

	names := s.names()

	for _, want := range []string{"let", "print", "while", "host", "zeta"} {
		if !slices.Contains(names, want) {
			t.Errorf("names() missing %q", want)
		}
	}

	if !slices.IsSorted(names) {
		t.Errorf("names() not sorted: %v", names)
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		v    lang.Value
		want string
	}{
		{lang.String("a b"), `"a b"`},
		{lang.Number(1.5), "1.5"},
		{lang.Bool(true), "true"},
		{lang.Undefined{}, "undefined"},
	}

	for _, tt := range tests {
		if got := display(tt.v); got != tt.want {
			t.Errorf("display(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
