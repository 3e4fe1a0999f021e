// Package log provides leveled, structured logging on top of [log/slog].
//
// A [Logger] is an immutable value configured with functional options when
// it is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("program loaded", slog.String("source", "main.nv"))
//
// Every level has a method taking a [context.Context] and one that uses
// [DefaultContextProvider]. Attributes are always [slog.Attr] values.
//
// The zero Logger discards everything, so library packages can accept a
// Logger through an option and log unconditionally.
//
// # Levels
//
// [LevelTrace] sits below [slog.LevelDebug] and is meant for per-step
// tracing such as the interpreter's node-by-node evaluation.
//
// # Pretty output
//
// By default records are written in a colorized layout meant for people.
// Colors follow the capabilities of the output, so redirected output stays
// plain. [WithPretty](false) selects the standard [slog] text and JSON
// handlers instead.
//
// # Package logger
//
// The package-level functions write to a default logger on standard error,
// reconfigured with [Config] or replaced with [SetDefault].
package log
