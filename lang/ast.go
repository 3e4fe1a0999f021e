package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/nv/log"
)

// AST is a parsed program: an ordered list of top-level statements together
// with the source they were parsed from.
type AST struct {
	logger log.Logger
	Name   string
	Source string
	Stmts  []Node
}

// Optimize returns a copy of the AST whose statements have been rewritten by
// the optimizer pipeline. The receiver is not modified. Only [WithShared]
// is consulted among opts; the AST's own logger is kept.
func (ast *AST) Optimize(ctx context.Context, opts ...Option) *AST {
	opt := *ast
	opt.Stmts = optimize(ctx, ast.logger, ast.Stmts, makeConfig(opts...).shared)

	ast.logger.TraceContext(ctx, "optimize complete",
		slog.Int("before", len(ast.Stmts)),
		slog.Int("after", len(opt.Stmts)),
	)

	return &opt
}

// Run executes the program with a new [Interpreter] configured by opts.
func (ast *AST) Run(ctx context.Context, opts ...Option) error {
	return NewInterpreter(append([]Option{WithLogger(ast.logger)}, opts...)...).
		Run(ctx, ast)
}

// Node is a syntax tree node. Every node records the source span it was
// parsed from. Nodes are never modified after construction.
type Node interface {
	Span() Span
	isNode()
}

// node carries the span shared by every [Node] implementation.
type node struct{ Pos Span }

func (n node) Span() Span { return n.Pos }
func (node) isNode()      {}

type (
	// Literal is a constant value.
	Literal struct {
		Value Value
		node
	}

	// Ident is a variable reference.
	Ident struct {
		Name string
		node
	}

	// Unary is a prefix operator applied to an operand.
	Unary struct {
		X  Node
		Op Op
		node
	}

	// Binary is an infix operator applied to two operands.
	Binary struct {
		Left  Node
		Right Node
		Op    Op
		node
	}

	// Call invokes a function value with positional arguments.
	Call struct {
		Callee Node
		Args   []Node
		node
	}

	// Builtin is a call to a reserved built-in such as print.
	Builtin struct {
		Name string
		Args []Node
		node
	}

	// VectorLit constructs a vector from its element expressions.
	VectorLit struct {
		Elems []Node
		node
	}

	// ObjectLit constructs an object from literal keys and value expressions.
	ObjectLit struct {
		Entries []Entry
		node
	}

	// Let declares a variable in the current scope.
	Let struct {
		Value Node
		Name  string
		node
	}

	// Assign updates the nearest existing binding of a variable.
	Assign struct {
		Value Node
		Name  string
		node
	}

	// Block is a sequence of statements evaluated for the value of the last.
	Block struct {
		Stmts []Node
		node
	}

	// Func declares a named function.
	Func struct {
		Body   Node
		Name   string
		Params []string
		node
	}

	// Return leaves the enclosing function with a value.
	Return struct {
		Value Node
		node
	}

	// If evaluates Then when Cond is truthy, otherwise Else (which may be
	// nil).
	If struct {
		Cond Node
		Then Node
		Else Node
		node
	}

	// Else is an else branch that was not attached to its if statement by
	// the parser because a statement terminator separated them.
	Else struct {
		Body Node
		node
	}

	// While evaluates Body as long as Cond is truthy.
	While struct {
		Cond Node
		Body Node
		node
	}

	// Bad marks input that failed to parse.
	Bad struct{ node }

	// Empty marks a statement slot vacated by a rewrite.
	Empty struct{ node }
)

// Entry is one key/value pair of an object literal.
type Entry struct {
	Value Node
	Key   Key
}

// Op is a unary or binary operator.
type Op uint8

const (
	OpAdd Op = iota // +
	OpSub           // -
	OpMul           // *
	OpDiv           // /
	OpMod           // %
	OpEq            // ==
	OpNeq           // !=
	OpLt            // <
	OpLte           // <=
	OpGt            // >
	OpGte           // >=
	OpAnd           // &&
	OpOr            // ||
	OpNot           // !
	OpNeg           // -
)

var opSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpEq:  "==",
	OpNeq: "!=",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
	OpAnd: "&&",
	OpOr:  "||",
	OpNot: "!",
	OpNeg: "-",
}

func (op Op) String() string {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}

	return "?"
}

// statements returns the statement list of a branch or body node.
func statements(n Node) []Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Block:
		return n.Stmts
	default:
		return []Node{n}
	}
}

func lit(v Value, span Span) *Literal {
	return &Literal{Value: v, node: node{span}}
}
