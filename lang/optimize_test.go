package lang

import (
	"reflect"
	"strings"
	"testing"
)

// formatted renders a statement list one statement per line.
func formatted(stmts []Node) string {
	lines := make([]string, 0, len(stmts))

	for _, s := range stmts {
		if !isEmpty(s) {
			lines = append(lines, FormatNode(s))
		}
	}

	return strings.Join(lines, "\n")
}

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"!!true", "true"},
		{"- - 5", "5"},
		{"1 + 2 * 3", "7"},
		{`"a" + 1 + true`, `"a1true"`},
		{"x + 2 * 3", "x + 6"},
		{"5 / 0", "5 / 0"},
		{"[1] + 2", "[1] + 2"},
		{"f(1 + 1)", "f(2)"},
		{"fn g() { return 2 * 2 }", "fn g() { return 4 }"},
		{"while 1 < 2 { print(3 - 1) }", "while true { print(2) }"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := formatted(fold(mustParse(t, tt.input).Stmts))
			if got != tt.want {
				t.Errorf("fold = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFold_FixedPoint(t *testing.T) {
	src := `let a = 1 + 2 * 3 - x
fn f(n) { if !false { return n % 0 } }
print(-(4 / 2), [1 + 1], {"k": 2 * 2})`

	once := fold(mustParse(t, src).Stmts)
	twice := fold(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("folding is not idempotent:\n%s\n---\n%s", formatted(once), formatted(twice))
	}
}

func TestPasses_DoNotModifyInput(t *testing.T) {
	src := `let a = 1
a = 2
if true { let b = a } else { print(0) }
print(a)`

	ast := mustParse(t, src)
	before := formatted(ast.Stmts)

	opt := ast.Optimize(t.Context())

	if after := formatted(ast.Stmts); after != before {
		t.Errorf("input modified:\n%s\n---\n%s", before, after)
	}

	if formatted(opt.Stmts) == before {
		t.Error("optimizer changed nothing")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "else on next line",
			input: "if a {\n  1\n}\nelse {\n  2\n}",
			want:  "if a { 1 } else { 2 }",
		},
		{
			name:  "else if chain across lines",
			input: "if a { 1 }\nelse if b { 2 }\nelse { 3 }",
			want:  "if a { 1 } else if b { 2 } else { 3 }",
		},
		{
			name:  "nested in a function body",
			input: "fn f() {\n  if a { 1 }\n  else { 2 }\n}",
			want:  "fn f() { if a { 1 } else { 2 } }",
		},
		{
			name:  "orphan else is kept",
			input: "print(1)\nelse { 2 }",
			want:  "print(1)\nelse { 2 }",
		},
		{
			name:  "if with else already",
			input: "if a { 1 } else { 2 }\nelse { 3 }",
			want:  "if a { 1 } else { 2 }\nelse { 3 }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatted(merge(mustParse(t, tt.input).Stmts)); got != tt.want {
				t.Errorf("merge =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestPropagate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "straight line",
			input: "let a = 2\nlet b = a * 3\nprint(a, b)",
			want:  "let a = 2\nlet b = 6\nprint(2, 6)",
		},
		{
			name:  "reassignment",
			input: "let a = 1\na = 2\nprint(a)",
			want:  "let a = 1\na = 2\nprint(2)",
		},
		{
			name:  "non-literal assignment forgets",
			input: "let a = 1\na = f()\nprint(a)",
			want:  "let a = 1\na = f()\nprint(a)",
		},
		{
			name:  "branch assignment forgets",
			input: "let a = 1\nif c { a = 2 }\nprint(a)",
			want:  "let a = 1\nif c { a = 2 }\nprint(a)",
		},
		{
			name:  "branch condition is substituted",
			input: "let a = 1\nif a == 1 { print(a) }",
			want:  "let a = 1\nif true { print(a) }",
		},
		{
			name:  "while condition is never substituted",
			input: "let i = 0\nwhile i < 3 { i = i + 1 }\nprint(i)",
			want:  "let i = 0\nwhile i < 3 { i = i + 1 }\nprint(i)",
		},
		{
			name:  "function bodies are not entered",
			input: "let a = 1\nfn f() = a\nprint(a)",
			want:  "let a = 1\nfn f() = a\nprint(1)",
		},
		{
			name:  "names assigned in functions are never tracked",
			input: "let a = 1\nfn bump() { a = a + 1 }\nbump()\nprint(a)",
			want:  "let a = 1\nfn bump() { a = a + 1 }\nbump()\nprint(a)",
		},
		{
			name:  "plain blocks share knowledge",
			input: "let a = 1\n{ print(a) }",
			want:  "let a = 1\n{ print(1) }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatted(propagate(mustParse(t, tt.input).Stmts, nil)); got != tt.want {
				t.Errorf("propagate =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "true branch spliced",
			input: "if true { let x = 1 } else { let x = 2 }",
			want:  "let x = 1",
		},
		{
			name:  "false branch spliced",
			input: "if 0 { print(1) } else { print(2); print(3) }",
			want:  "print(2)\nprint(3)",
		},
		{
			name:  "false without else vanishes",
			input: "print(0)\nif false { print(1) }",
			want:  "print(0)",
		},
		{
			name:  "else if chain",
			input: "if false { print(1) } else if true { print(2) } else { print(3) }",
			want:  "print(2)",
		},
		{
			name:  "nested",
			input: "while c { if true { if false { 1 } else { 2 } } }",
			want:  "while c { 2 }",
		},
		{
			name:  "redeclaration is not spliced",
			input: "let x = 0\nif true { let x = 1 }",
			want:  "let x = 0\nif true { let x = 1 }",
		},
		{
			name:  "parameter is not redeclared",
			input: "fn f(x) { if true { let x = 1 } }",
			want:  "fn f(x) { if true { let x = 1 } }",
		},
		{
			name:  "non-literal condition kept",
			input: "if c { print(1) }",
			want:  "if c { print(1) }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatted(unwrap(mustParse(t, tt.input).Stmts)); got != tt.want {
				t.Errorf("unwrap =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestUnwrap_ThenPropagate(t *testing.T) {
	stmts := mustParse(t, "if true { let x = 1 } else { let x = 2 }\nprint(x)").Stmts

	got := formatted(propagate(unwrap(stmts), nil))
	if want := "let x = 1\nprint(1)"; got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEliminate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unread declaration",
			input: "let b = 5\nprint(1)",
			want:  "print(1)",
		},
		{
			name:  "unread declaration with its assignments",
			input: "let b = 5\nb = 6\nprint(1)",
			want:  "print(1)",
		},
		{
			name:  "side effects survive",
			input: "let b = f()\nprint(1)",
			want:  "f()\nprint(1)",
		},
		{
			name:  "overwritten declaration",
			input: "let a = 1\na = 2\nprint(a)",
			want:  "let a = 2\nprint(a)",
		},
		{
			name:  "overwritten assignment",
			input: "let a = 1\nprint(a)\na = 2\na = 3\nprint(a)",
			want:  "let a = 1\nprint(a)\na = 3\nprint(a)",
		},
		{
			name:  "read in between",
			input: "let a = 1\nprint(a)\na = 2\nprint(a)",
			want:  "let a = 1\nprint(a)\na = 2\nprint(a)",
		},
		{
			name:  "call in between",
			input: "let a = 1\nfn show() = print(a)\nshow()\na = 2\nshow()",
			want:  "let a = 1\nfn show() = print(a)\nshow()\na = 2\nshow()",
		},
		{
			name:  "nested write in between",
			input: "let a = 1\nif c { a = 5 }\na = 2\nprint(a)",
			want:  "let a = 1\nif c { a = 5 }\na = 2\nprint(a)",
		},
		{
			name:  "self-referencing update",
			input: "let a = 1\na = a + 1\nprint(a)",
			want:  "let a = 1\na = a + 1\nprint(a)",
		},
		{
			name:  "assigned in nested code only",
			input: "let a = 1\nfn set() { a = 2 }\nset()",
			want:  "let a = 1\nfn set() { a = 2 }\nset()",
		},
		{
			name:  "unused function",
			input: "fn unused() = 1\nprint(2)",
			want:  "print(2)",
		},
		{
			name:  "cascade",
			input: "let a = 1\nlet b = a\nprint(3)",
			want:  "print(3)",
		},
		{
			name:  "function body",
			input: "fn g(n) {\n  let a = 1\n  a = n\n  return a\n}\nprint(g(4))",
			want:  "fn g(n) { let a = n; return a }\nprint(g(4))",
		},
		{
			name:  "plain block shares the enclosing scope",
			input: "fn g() { return 1 }\n{\n  let y = g()\n}\nprint(y)",
			want:  "fn g() { return 1 }\nlet y = g()\nprint(y)",
		},
		{
			name:  "unread in plain block",
			input: "{\n  let y = 1\n}\nprint(2)",
			want:  "print(2)",
		},
		{
			name:  "function result stays undefined",
			input: "fn f() {\n  let r = g()\n}\nprint(f())",
			want:  "fn f() { g(); undefined }\nprint(f())",
		},
		{
			name:  "branch result stays undefined",
			input: "print(1)\nif c {\n  print(2)\n  let r = 3\n}",
			want:  "print(1)\nif c { print(2); undefined }",
		},
		{
			name:  "empty function body",
			input: "fn f() {\n  let r = 1\n}\nprint(f())",
			want:  "fn f() {}\nprint(f())",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatted(eliminate(mustParse(t, tt.input).Stmts, nil)); got != tt.want {
				t.Errorf("eliminate =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestOptimize_Pipeline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "dead store and propagation",
			input: "let a = 1; a = 2; print(a);",
			want:  "print(2)",
		},
		{
			name:  "unwrap and propagate",
			input: "if true { let x = 1; } else { let x = 2; }\nprint(x)",
			want:  "print(1)",
		},
		{
			name:  "merged else then unwrapped",
			input: "let debug = false\nif debug {\n  print(\"debug\")\n}\nelse {\n  print(\"quiet\")\n}",
			want:  `print("quiet")`,
		},
		{
			name:  "loop kept intact",
			input: "let i = 0\nwhile i < 2 { i = i + 1 }\nprint(i)",
			want:  "let i = 0\nwhile i < 2 { i = i + 1 }\nprint(i)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatted(Optimize(t.Context(), mustParse(t, tt.input).Stmts))
			if got != tt.want {
				t.Errorf("Optimize =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
