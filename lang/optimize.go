package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/nv/log"
)

// pass is one rewrite of a statement list. Passes never modify their input.
// Names in shared are visible to other programs run by the same interpreter.
type pass struct {
	run  func(stmts []Node, shared map[string]struct{}) []Node
	name string
}

// pipeline is the fixed optimizer order. Propagation runs again after
// unwrapping because spliced branches expose new straight-line code.
var pipeline = []pass{
	{local(fold), "fold"},
	{local(merge), "merge"},
	{propagate, "propagate"},
	{local(unwrap), "unwrap"},
	{propagate, "propagate"},
	{eliminate, "eliminate"},
}

func local(fn func([]Node) []Node) func([]Node, map[string]struct{}) []Node {
	return func(stmts []Node, _ map[string]struct{}) []Node { return fn(stmts) }
}

// Optimize rewrites a statement list with the full optimizer pipeline and
// returns the result. The input is not modified. Use [WithShared] when the
// statements run alongside other programs.
func Optimize(ctx context.Context, stmts []Node, opts ...Option) []Node {
	cfg := makeConfig(opts...)

	return optimize(ctx, cfg.logger, stmts, cfg.shared)
}

func optimize(
	ctx context.Context, logger log.Logger, stmts []Node, shared map[string]struct{},
) []Node {
	for _, p := range pipeline {
		before := len(stmts)
		stmts = p.run(stmts, shared)

		logger.DebugContext(ctx, "optimizer pass",
			slog.String("pass", p.name),
			slog.Int("before", before),
			slog.Int("after", len(stmts)),
			slog.Int("shared_names", len(shared)),
		)
	}

	return stmts
}
