package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Interpreter evaluates syntax trees against a persistent root scope.
//
// An Interpreter is not safe for concurrent use. Evaluation runs on the
// calling goroutine until the program finishes; the context passed to its
// methods carries logging values only.
type Interpreter struct {
	globals *Env
	cfg     config
}

// NewInterpreter returns an interpreter whose root scope holds the values
// given by [WithGlobals].
func NewInterpreter(opts ...Option) *Interpreter {
	cfg := makeConfig(opts...)
	env := NewEnv(nil)

	for _, name := range slices.Sorted(maps.Keys(cfg.globals)) {
		_ = env.Define(name, cfg.globals[name])
	}

	return &Interpreter{globals: env, cfg: cfg}
}

// Globals returns the root scope. Top-level declarations of every program
// run by the interpreter accumulate here.
func (in *Interpreter) Globals() *Env { return in.globals }

// Run executes the top-level statements of ast in order. A statement that
// fails is abandoned: its error is logged and passed to the error handler,
// and execution continues with the next statement. The returned error joins
// every statement failure.
func (in *Interpreter) Run(ctx context.Context, ast *AST) error {
	logger := in.cfg.logger.With(slog.String("source", ast.Name))

	logger.DebugContext(ctx, "run program",
		slog.Int("statement_count", len(ast.Stmts)),
	)

	var errs []error

	for _, stmt := range merge(ast.Stmts) {
		if _, err := in.Eval(ctx, stmt); err != nil {
			logger.ErrorContext(ctx, "statement failed", slog.Any("error", err))

			if in.cfg.onError != nil {
				in.cfg.onError(err)
			}

			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Exec executes stmts in order in the root scope and returns the value of
// the last one. It stops at the first error. Like [Interpreter.Run], it
// attaches an else on its own line to the if before it.
func (in *Interpreter) Exec(ctx context.Context, stmts []Node) (Value, error) {
	var result Value = Undefined{}

	for _, stmt := range merge(stmts) {
		if isEmpty(stmt) {
			continue
		}

		v, err := in.Eval(ctx, stmt)
		if err != nil {
			return nil, err
		}

		result = v
	}

	return result, nil
}

// Eval evaluates a single statement or expression in the root scope. A
// return statement evaluates to its value.
func (in *Interpreter) Eval(ctx context.Context, n Node) (Value, error) {
	v, _, err := in.exec(ctx, n, in.globals)

	return v, err
}

// exec runs a statement. The returned flag reports that a return statement
// was reached and the enclosing call must unwind.
func (in *Interpreter) exec(ctx context.Context, n Node, env *Env) (Value, bool, error) {
	switch n := n.(type) {
	case *Let:
		v, err := in.eval(ctx, n.Value, env)
		if err != nil {
			return nil, false, err
		}

		if err := env.Define(n.Name, v); err != nil {
			return nil, false, locate(err, n.Span())
		}

		return Undefined{}, false, nil

	case *Assign:
		v, err := in.eval(ctx, n.Value, env)
		if err != nil {
			return nil, false, err
		}

		if err := env.Set(n.Name, v); err != nil {
			return nil, false, locate(err, n.Span())
		}

		return Undefined{}, false, nil

	case *Func:
		fn := &Function{Body: n.Body, Env: env, Name: n.Name, Params: n.Params}
		if err := env.Define(n.Name, fn); err != nil {
			return nil, false, locate(err, n.Span())
		}

		return Undefined{}, false, nil

	case *Return:
		v, err := in.eval(ctx, n.Value, env)

		return v, err == nil, err

	case *Block:
		return in.block(ctx, n.Stmts, env)

	case *If:
		cond, err := in.eval(ctx, n.Cond, env)
		if err != nil {
			return nil, false, err
		}

		branch := n.Else
		if Truthy(cond) {
			branch = n.Then
		}

		if branch == nil {
			return Undefined{}, false, nil
		}

		return in.exec(ctx, branch, NewEnv(env))

	case *Else:
		return nil, false, ErrOrphanElse.At(n.Span())

	case *While:
		var result Value = Undefined{}

		for {
			cond, err := in.eval(ctx, n.Cond, env)
			if err != nil {
				return nil, false, err
			}

			if !Truthy(cond) {
				return result, false, nil
			}

			v, ret, err := in.exec(ctx, n.Body, NewEnv(env))
			if err != nil || ret {
				return v, ret, err
			}

			result = v
		}

	case *Empty:
		return Undefined{}, false, nil

	default:
		v, err := in.eval(ctx, n, env)

		return v, false, err
	}
}

func (in *Interpreter) block(ctx context.Context, stmts []Node, env *Env) (Value, bool, error) {
	var result Value = Undefined{}

	for _, s := range stmts {
		if isEmpty(s) {
			continue
		}

		v, ret, err := in.exec(ctx, s, env)
		if err != nil || ret {
			return v, ret, err
		}

		result = v
	}

	return result, false, nil
}

// eval evaluates an expression.
func (in *Interpreter) eval(ctx context.Context, n Node, env *Env) (Value, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil

	case *Ident:
		v, err := env.Get(n.Name)
		if err != nil {
			return nil, locate(err, n.Span())
		}

		return v, nil

	case *Unary:
		x, err := in.eval(ctx, n.X, env)
		if err != nil {
			return nil, err
		}

		v, err := UnaryOp(n.Op, x)
		if err != nil {
			return nil, locate(err, n.Span())
		}

		return v, nil

	case *Binary:
		l, err := in.eval(ctx, n.Left, env)
		if err != nil {
			return nil, err
		}

		r, err := in.eval(ctx, n.Right, env)
		if err != nil {
			return nil, err
		}

		v, err := BinaryOp(n.Op, l, r)
		if err != nil {
			return nil, locate(err, n.Span())
		}

		return v, nil

	case *VectorLit:
		vec := make(Vector, len(n.Elems))

		for i, e := range n.Elems {
			v, err := in.eval(ctx, e, env)
			if err != nil {
				return nil, err
			}

			vec[i] = v
		}

		return vec, nil

	case *ObjectLit:
		obj := NewObject()

		for _, e := range n.Entries {
			v, err := in.eval(ctx, e.Value, env)
			if err != nil {
				return nil, err
			}

			obj.Set(e.Key, v)
		}

		return obj, nil

	case *Call:
		return in.call(ctx, n, env)

	case *Builtin:
		return in.builtin(ctx, n, env)

	case *Bad:
		return nil, ErrSyntaxNode.At(n.Span())

	case *Let, *Assign, *Func, *Return, *Block, *If, *Else, *While, *Empty:
		v, _, err := in.exec(ctx, n, env)

		return v, err

	default:
		return nil, ErrSyntaxNode.Wrapf("%T", n)
	}
}

func (in *Interpreter) call(ctx context.Context, n *Call, env *Env) (Value, error) {
	callee, err := in.eval(ctx, n.Callee, env)
	if err != nil {
		return nil, err
	}

	fn, ok := callee.(*Function)
	if !ok {
		return nil, ErrNotCallable.Wrapf("%s", callee.Kind()).At(n.Span())
	}

	args := make([]Value, len(n.Args))

	for i, a := range n.Args {
		if args[i], err = in.eval(ctx, a, env); err != nil {
			return nil, err
		}
	}

	in.cfg.logger.TraceContext(ctx, "call function",
		slog.String("function", fn.Name),
		slog.Int("argument_count", len(args)),
	)

	scope := NewEnv(fn.Env)

	for i, param := range fn.Params {
		var v Value = Undefined{}
		if i < len(args) {
			v = args[i]
		}

		if err := scope.Define(param, v); err != nil {
			return nil, locate(err, n.Span())
		}
	}

	v, _, err := in.exec(ctx, fn.Body, scope)

	return v, err
}

func (in *Interpreter) builtin(ctx context.Context, n *Builtin, env *Env) (Value, error) {
	if n.Name != builtinPrint {
		return nil, ErrNotCallable.Wrapf("%s", n.Name).At(n.Span())
	}

	parts := make([]string, len(n.Args))

	for i, a := range n.Args {
		v, err := in.eval(ctx, a, env)
		if err != nil {
			return nil, err
		}

		parts[i] = v.String()
	}

	if _, err := io.WriteString(in.cfg.output, strings.Join(parts, " ")+"\n"); err != nil {
		return nil, ErrWriteOutput.Wrap(err).At(n.Span())
	}

	return Undefined{}, nil
}

// Describe formats err for display, prefixing it with the line and column
// of the source position it carries, if any.
func Describe(err error, name, src string) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	span, ok := e.Span()
	if !ok {
		return err.Error()
	}

	line, col := span.Position(src)

	if name == "" {
		return fmt.Sprintf("%d:%d: %s", line, col, err)
	}

	return fmt.Sprintf("%s:%d:%d: %s", name, line, col, err)
}
