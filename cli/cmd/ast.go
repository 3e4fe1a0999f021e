package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

// AST prints the syntax tree of a script.
type AST struct {
	Script   string `arg:"" default:"-" help:"Script path, name on the search path, or '-' for stdin" name:"script"`
	Format   string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})" short:"f"`
	Indent   int    `default:"2" help:"Indent width" short:"i"`
	Optimize bool   `help:"Print the tree produced by the optimizer" short:"O"`
}

// Run executes the ast command. A script with syntax errors is still printed,
// with each region that failed to parse shown as a malformed node, and the
// diagnostics are reported afterward.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout, stderr := streams(ctx)

	srcs, err := loadSources(ctx, []string{a.Script})
	if err != nil {
		return err
	}

	src := srcs[0]

	ast, perr := lang.ParseReader(ctx, strings.NewReader(src.text),
		lang.WithName(src.name),
		lang.WithLogger(log.With(slog.String("command", "ast"))),
	)

	if a.Optimize && perr == nil {
		ast = ast.Optimize(ctx)
	}

	switch a.Format {
	case "native":
		err = ast.Format(ctx, stdout, a.Indent)
	case "json":
		err = ast.FormatJSON(ctx, stdout, a.Indent)
	case "yaml":
		err = ast.FormatYAML(ctx, stdout, a.Indent)
	default:
		return ErrUnknownFormat.With(slog.String("format", a.Format))
	}

	if err != nil {
		return err
	}

	if perr != nil {
		Report(stderr, perr, src.name, src.text)

		return ErrSyntax.With(slog.String("script", src.name))
	}

	return nil
}
