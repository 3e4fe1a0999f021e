package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the AST in nv source syntax. With indent 0 every statement
// list is written on one line; otherwise blocks are broken over lines and
// indented by indent spaces per level.
func (ast *AST) Format(_ context.Context, w io.Writer, indent int) error {
	p := &printer{indent: indent}
	p.list(ast.Stmts, "\n")

	_, err := fmt.Fprintln(w, p.String())

	return err
}

// FormatJSON writes the AST as JSON to the writer.
func (ast *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ast, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ast)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the AST as YAML to the writer.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ast.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// FormatNode returns n in nv source syntax on a single line.
func FormatNode(n Node) string {
	p := &printer{}
	p.stmt(n)

	return p.String()
}

type printer struct {
	strings.Builder
	indent int
	depth  int
}

// list writes stmts separated by sep, skipping vacated slots.
func (p *printer) list(stmts []Node, sep string) {
	first := true

	for _, s := range stmts {
		if isEmpty(s) {
			continue
		}

		if !first {
			p.WriteString(sep)
			p.pad()
		}

		first = false

		p.stmt(s)
	}
}

func (p *printer) pad() {
	if p.indent > 0 {
		p.WriteString(strings.Repeat(" ", p.depth*p.indent))
	}
}

func (p *printer) block(stmts []Node) {
	if len(stmts) == 0 {
		p.WriteString("{}")

		return
	}

	if p.indent == 0 {
		p.WriteString("{ ")
		p.list(stmts, "; ")
		p.WriteString(" }")

		return
	}

	p.depth++
	p.WriteString("{\n")
	p.pad()
	p.list(stmts, "\n")
	p.depth--
	p.WriteString("\n")
	p.pad()
	p.WriteString("}")
}

func (p *printer) body(n Node) {
	if b, ok := n.(*Block); ok {
		p.block(b.Stmts)

		return
	}

	p.stmt(n)
}

func (p *printer) stmt(n Node) {
	switch n := n.(type) {
	case *Let:
		p.WriteString("let " + n.Name)

		if !isUndefinedLiteral(n.Value) {
			p.WriteString(" = ")
			p.expr(n.Value, 0)
		}

	case *Assign:
		p.WriteString(n.Name + " = ")
		p.expr(n.Value, 0)

	case *Func:
		p.WriteString("fn " + n.Name + "(" + strings.Join(n.Params, ", ") + ")")

		if r, ok := n.Body.(*Return); ok {
			p.WriteString(" = ")
			p.expr(r.Value, 0)

			return
		}

		p.WriteString(" ")
		p.body(n.Body)

	case *Return:
		p.WriteString("return")

		if !isUndefinedLiteral(n.Value) {
			p.WriteString(" ")
			p.expr(n.Value, 0)
		}

	case *Block:
		p.block(n.Stmts)

	case *If:
		p.WriteString("if ")
		p.expr(n.Cond, 0)
		p.WriteString(" ")
		p.body(n.Then)

		if n.Else != nil {
			p.WriteString(" else ")
			p.body(n.Else)
		}

	case *Else:
		p.WriteString("else ")
		p.body(n.Body)

	case *While:
		p.WriteString("while ")
		p.expr(n.Cond, 0)
		p.WriteString(" ")
		p.body(n.Body)

	default:
		p.expr(n, 0)
	}
}

// expr writes an expression, parenthesized if it binds looser than prec.
func (p *printer) expr(n Node, prec int) {
	switch n := n.(type) {
	case *Literal:
		p.WriteString(literal(n.Value))

	case *Ident:
		p.WriteString(n.Name)

	case *Unary:
		p.WriteString(n.Op.String())

		if x, ok := n.X.(*Unary); ok && x.Op == n.Op && n.Op == OpNeg {
			p.WriteString(" ")
		}

		p.expr(n.X, precUnary)

	case *Binary:
		own := precedence(n.Op)
		if own < prec {
			p.WriteString("(")
		}

		p.expr(n.Left, own)
		p.WriteString(" " + n.Op.String() + " ")
		p.expr(n.Right, own+1)

		if own < prec {
			p.WriteString(")")
		}

	case *Call:
		p.expr(n.Callee, precUnary+1)
		p.args(n.Args)

	case *Builtin:
		p.WriteString(n.Name)
		p.args(n.Args)

	case *VectorLit:
		p.WriteString("[")

		for i, e := range n.Elems {
			if i > 0 {
				p.WriteString(", ")
			}

			p.expr(e, 0)
		}

		p.WriteString("]")

	case *ObjectLit:
		p.WriteString("{")

		for i, e := range n.Entries {
			if i > 0 {
				p.WriteString(", ")
			}

			p.WriteString(e.Key.String() + ": ")
			p.expr(e.Value, 0)
		}

		p.WriteString("}")

	case *Bad:
		p.WriteString("/* syntax error */")

	default:
		p.WriteString("(")
		p.stmt(n)
		p.WriteString(")")
	}
}

func (p *printer) args(args []Node) {
	p.WriteString("(")

	for i, a := range args {
		if i > 0 {
			p.WriteString(", ")
		}

		p.expr(a, 0)
	}

	p.WriteString(")")
}

// precUnary binds tighter than every binary operator.
const precUnary = precProduct + 1

func precedence(op Op) int {
	switch op {
	case OpAnd, OpOr:
		return precLogical
	case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
		return precCompare
	case OpAdd, OpSub:
		return precSum
	default:
		return precProduct
	}
}

// literal renders a constant as source text.
func literal(v Value) string {
	if s, ok := v.(String); ok {
		return `"` + string(s) + `"`
	}

	return nested(v)
}

func isUndefinedLiteral(n Node) bool {
	l, ok := n.(*Literal)

	return ok && l.Value.Kind() == KindUndefined
}
