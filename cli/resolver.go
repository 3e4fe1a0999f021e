package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

// resolve returns a [kong.ConfigurationLoader] for config files written in
// nv itself. The file is run as a script with print output discarded, and
// every top-level binding it leaves behind supplies the default of the flag
// with the same name.
//
// Flag names contain hyphens, which identifiers cannot, so a binding may
// use underscores instead:
//
//	let log_level = "debug"
//	let log_pretty = false
//	let include = ["/usr/local/share/nv", "~/nv"]
//
// Functions and undefined values are ignored. Numbers are handed to kong as
// strings. Command-line flags override config file values.
//
// A config file that fails to parse or run is reported with a warning and
// contributes only the bindings made before the failure.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		logger := log.With(slog.String("component", "config"))

		ast, err := lang.ParseReader(ctx, r,
			lang.WithName(configName+".nv"),
			lang.WithLogger(logger),
		)
		if err != nil {
			logger.WarnContext(ctx, "config ignored", slog.Any("error", err))

			return config{}, nil
		}

		in := lang.NewInterpreter(
			lang.WithLogger(logger),
			lang.WithOutput(io.Discard),
		)

		if err := in.Run(ctx, ast); err != nil {
			logger.WarnContext(ctx, "config incomplete", slog.Any("error", err))
		}

		return bindings(in.Globals()), nil
	}
}

// config implements [kong.Resolver] for nv config scripts.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// bindings collects the flag values bound in env.
func bindings(env *lang.Env) config {
	cfg := make(config)

	for _, name := range env.Names() {
		v, err := env.Get(name)
		if err != nil {
			continue
		}

		if value, ok := flagValue(v); ok {
			cfg[name] = value
		}
	}

	return cfg
}

// flagValue converts v to a form kong can decode into a flag.
func flagValue(v lang.Value) (any, bool) {
	switch v := v.(type) {
	case lang.Undefined, *lang.Function:
		return nil, false
	case lang.Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64), true
	case lang.Vector:
		out := make([]any, 0, len(v))
		for _, e := range v {
			if value, ok := flagValue(e); ok {
				out = append(out, value)
			}
		}

		return out, true
	default:
		return lang.ToNative(v), true
	}
}
