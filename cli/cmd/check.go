package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

// Check reports the syntax errors of scripts without running them.
type Check struct {
	Scripts []string `arg:"" default:"-" help:"Script paths, names on the search path, or '-' for stdin" name:"script"`
	Quiet   bool     `help:"Only report scripts with errors" short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout, stderr := streams(ctx)
	logger := log.With(slog.String("command", "check"))

	srcs, err := loadSources(ctx, c.Scripts)
	if err != nil {
		return err
	}

	var failed []error

	for _, src := range srcs {
		_, err := lang.ParseString(ctx, src.text,
			lang.WithName(src.name),
			lang.WithLogger(logger),
		)
		if err != nil {
			Report(stderr, err, src.name, src.text)
			failed = append(failed, ErrSyntax.With(slog.String("script", src.name)))

			continue
		}

		if !c.Quiet {
			fmt.Fprintf(stdout, "%s: ok\n", src.name)
		}
	}

	return errors.Join(failed...)
}
