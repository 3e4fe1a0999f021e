package lang

import (
	"errors"
	"strings"
	"testing"
)

// mustParse parses src and fails the test on any diagnostic.
func mustParse(t *testing.T, src string) *AST {
	t.Helper()

	ast, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return ast
}

// diagnostics parses src and returns its diagnostics.
func diagnostics(t *testing.T, src string) []Diagnostic {
	t.Helper()

	_, err := ParseString(t.Context(), src)
	if err == nil {
		return nil
	}

	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a *SyntaxError", err)
	}

	return se.Diagnostics
}

func TestParseString_StatementKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // formatted statements
	}{
		{
			name:  "let with and without value",
			input: "let a = 1\nlet b",
			want:  []string{"let a = 1", "let b"},
		},
		{
			name:  "assignment",
			input: "a = a + 1",
			want:  []string{"a = a + 1"},
		},
		{
			name:  "function with block body",
			input: "fn add(a, b) {\n  return a + b\n}",
			want:  []string{"fn add(a, b) { return a + b }"},
		},
		{
			name:  "function with expression body",
			input: "fn twice(x) = x * 2",
			want:  []string{"fn twice(x) = x * 2"},
		},
		{
			name:  "bare return",
			input: "fn f() { return }",
			want:  []string{"fn f() { return }"},
		},
		{
			name:  "if else if else",
			input: "if a { 1 } else if b { 2 } else { 3 }",
			want:  []string{"if a { 1 } else if b { 2 } else { 3 }"},
		},
		{
			name:  "while",
			input: "while i < 3 { i = i + 1 }",
			want:  []string{"while i < 3 { i = i + 1 }"},
		},
		{
			name:  "block",
			input: "{ let x = 1; print(x) }",
			want:  []string{"{ let x = 1; print(x) }"},
		},
		{
			name:  "object expression statement",
			input: `{"a": 1, 2: "b"}`,
			want:  []string{`{"a": 1, 2: "b"}`},
		},
		{
			name:  "semicolons and blank lines",
			input: "a; b\n\n;c;",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "else on a later line",
			input: "if a {\n  1\n}\nelse {\n  2\n}",
			want:  []string{"if a { 1 }", "else { 2 }"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast := mustParse(t, tt.input)

			if len(ast.Stmts) != len(tt.want) {
				t.Fatalf("got %d statements, want %d", len(ast.Stmts), len(tt.want))
			}

			for i, s := range ast.Stmts {
				if got := FormatNode(s); got != tt.want[i] {
					t.Errorf("statement %d = %q, want %q", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestParseString_Precedence(t *testing.T) {
	ast := mustParse(t, "1 + 2 * 3")

	add, ok := ast.Stmts[0].(*Binary)
	if !ok || add.Op != OpAdd {
		t.Fatalf("root = %#v, want addition", ast.Stmts[0])
	}

	mul, ok := add.Right.(*Binary)
	if !ok || mul.Op != OpMul {
		t.Fatalf("right operand = %#v, want multiplication", add.Right)
	}

	if l, ok := add.Left.(*Literal); !ok || !Equal(l.Value, Number(1)) {
		t.Errorf("left operand = %#v, want literal 1", add.Left)
	}
}

func TestParseString_Associativity(t *testing.T) {
	tests := []struct {
		input string
		want  string // fully parenthesized
	}{
		{"a - b - c", "((a - b) - c)"},
		{"a / b * c", "((a / b) * c)"},
		{"a < b == c", "((a < b) == c)"},
		{"a || b && c", "((a || b) && c)"},
		{"a and b or c", "((a && b) || c)"},
		{"a + b * c - d", "((a + (b * c)) - d)"},
		{"!a == b", "(!a == b)"},
		{"-f(x)(y)", "-f(x)(y)"},
		{"(a + b) * c", "((a + b) * c)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ast := mustParse(t, tt.input)
			if got := parenthesize(ast.Stmts[0]); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// parenthesize renders an expression with every binary operation
// parenthesized.
func parenthesize(n Node) string {
	switch n := n.(type) {
	case *Binary:
		return "(" + parenthesize(n.Left) + " " + n.Op.String() + " " +
			parenthesize(n.Right) + ")"
	case *Unary:
		return n.Op.String() + parenthesize(n.X)
	default:
		return FormatNode(n)
	}
}

func TestParseString_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"vector", `[1, "a", [true]]`, `[1, "a", [true]]`},
		{"trailing comma", `[1, 2,]`, `[1, 2]`},
		{"multiline vector", "[\n  1,\n  2\n]", `[1, 2]`},
		{"multiline call", "f(\n  a,\n  b\n)", `f(a, b)`},
		{"chained call", `make()(1)`, `make()(1)`},
		{"print builtin", `print("x", 1)`, `print("x", 1)`},
		{"nested object", `let o = {"a": {"b": 1}}`, `let o = {"a": {"b": 1}}`},
		{"unary chain", `!!true`, `!!true`},
		{"negation chain", `- - 5`, `- -5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast := mustParse(t, tt.input)
			if got := FormatNode(ast.Stmts[0]); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_PrintIsBuiltin(t *testing.T) {
	ast := mustParse(t, `print(1)`)

	b, ok := ast.Stmts[0].(*Builtin)
	if !ok {
		t.Fatalf("statement = %T, want *Builtin", ast.Stmts[0])
	}

	if b.Name != "print" || len(b.Args) != 1 {
		t.Errorf("builtin = %s with %d args", b.Name, len(b.Args))
	}
}

func TestParseString_TwoUnrelatedErrors(t *testing.T) {
	src := "let a = (1 + 2\nlet b = 3 * * 4\nprint(b)"

	diags := diagnostics(t, src)
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}

	if !strings.Contains(diags[0].Message, "unclosed delimiter '('") {
		t.Errorf("first diagnostic = %q", diags[0].Message)
	}

	if !strings.Contains(diags[1].Message, "unexpected operator '*'") {
		t.Errorf("second diagnostic = %q", diags[1].Message)
	}

	labels := diags[0].Labels
	if len(labels) != 2 ||
		labels[0].Production != "parenthesized expression" ||
		labels[1].Production != "let statement" {
		t.Errorf("labels = %+v, want parenthesized expression inside let statement", labels)
	}
}

func TestParseString_Recovery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		message string
		stmts   int
	}{
		{
			name:    "missing operand",
			input:   "let a = \nlet b = 1",
			count:   1,
			message: "expected expression, found newline",
			stmts:   2,
		},
		{
			name:    "mismatched closer skips to matching one",
			input:   "f(1 2)\nprint(3)",
			count:   1,
			message: "expected ')', found '2'",
			stmts:   2,
		},
		{
			name:    "missing terminator",
			input:   "let a = 1 2\nlet b = 2",
			count:   1,
			message: "expected end of statement, found '2'",
			stmts:   2,
		},
		{
			name:    "unmatched closer",
			input:   ")\nlet a = 1",
			count:   1,
			message: "unmatched closing delimiter ')'",
			stmts:   2,
		},
		{
			name:    "unclosed block",
			input:   "while true {\n  print(1)\n",
			count:   1,
			message: "unclosed delimiter '{'",
			stmts:   1,
		},
		{
			name:    "missing body",
			input:   "if a print(1)",
			count:   1,
			message: "expected '{', found 'print'",
			stmts:   1,
		},
		{
			name:    "bad object key",
			input:   "let o = {\"a\": 1, b: 2}\nlet c = 3",
			count:   1,
			message: "expected object key, found 'b'",
			stmts:   2,
		},
		{
			name:    "lexical and syntax errors together",
			input:   "let a = @\nlet b = (",
			count:   4,
			message: "unexpected character '@'",
			stmts:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, err := ParseString(t.Context(), tt.input)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("error = %v, want syntax error", err)
			}

			var se *SyntaxError

			errors.As(err, &se)

			if len(se.Diagnostics) != tt.count {
				t.Fatalf("got %d diagnostics, want %d: %v",
					len(se.Diagnostics), tt.count, se.Diagnostics)
			}

			if se.Diagnostics[0].Message != tt.message {
				t.Errorf("first message = %q, want %q", se.Diagnostics[0].Message, tt.message)
			}

			if len(ast.Stmts) != tt.stmts {
				t.Errorf("got %d statements, want %d", len(ast.Stmts), tt.stmts)
			}
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	_, err := ParseString(t.Context(), "let a = 1\nlet = 2\n)", WithName("test.nv"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}

	want := "test.nv:2:5: expected identifier, found '=' (and 1 more)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseTokens_AppendsEOF(t *testing.T) {
	stmts, diags := ParseTokens([]Token{
		{Kind: TokenIdent, Text: "x", Span: Span{0, 1}},
	})

	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if id, ok := stmts[0].(*Ident); !ok || id.Name != "x" {
		t.Errorf("statement = %#v, want identifier x", stmts[0])
	}
}
