package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/nv/cli/cmd/repl"
	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
	"github.com/ardnew/nv/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	Preload []string `arg:"" help:"Scripts whose declarations are loaded into the session" name:"script" optional:""`
	Define  []string `help:"Bind NAME to the value of an expr-lang expression" placeholder:"NAME=EXPR" short:"D"`
	History string   `default:"${history}" help:"File that submitted lines are saved to" type:"path"`
}

// Run executes the repl command. Preloaded scripts are not optimized, so
// every declaration they make stays visible in the session.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, stderr := streams(ctx)
	logger := log.With(slog.String("command", "repl"))

	globals, err := lang.ParseDefines(r.Define, os.Environ())
	if err != nil {
		return err
	}

	srcs, err := loadSources(ctx, r.Preload)
	if err != nil {
		return err
	}

	scripts := make([]*lang.AST, 0, len(srcs))

	var failed []error

	for _, src := range srcs {
		ast, err := lang.ParseReader(ctx, strings.NewReader(src.text),
			lang.WithName(src.name),
			lang.WithLogger(logger),
		)
		if err != nil {
			Report(stderr, err, src.name, src.text)
			failed = append(failed, ErrSyntax.With(slog.String("script", src.name)))

			continue
		}

		scripts = append(scripts, ast)
	}

	if len(failed) > 0 {
		return errors.Join(failed...)
	}

	return repl.Run(ctx, repl.Config{
		Scripts:     scripts,
		Globals:     globals,
		HistoryPath: r.History,
		Logger:      logger,
	})
}

// DefaultHistory returns the default REPL history file path.
func DefaultHistory() string {
	return filepath.Join(pkg.CacheDir(), repl.HistoryFile)
}
