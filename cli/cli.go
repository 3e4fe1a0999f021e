package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nv/cli/cmd"
	"github.com/ardnew/nv/pkg"
)

// configName is the base name of the configuration files.
const configName = "config"

// CLI is the top-level command-line interface for nv.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include []string `help:"Directory searched for scripts given by name" placeholder:"DIR" short:"I" type:"existingdir"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run a script"`
	Check   cmd.Check   `cmd:""                    help:"Report syntax errors without running"`
	AST     cmd.AST     `cmd:""                    help:"Print the syntax tree of a script"     name:"ast"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Version cmd.Version `cmd:""                    help:"Print the interpreter version"`
}

// Run executes the nv CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		"history": cmd.DefaultHistory(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong runs, so that messages logged while
	// parsing already honor them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath(configName+".json")),
		kong.Configuration(resolve(ctx), pkg.ConfigPath(configName+".nv")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The provider bound above returns ctx as it is when a command runs.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, cmd.SearchPath(cli.Include, os.Getenv(pkg.PathEnv)))

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
