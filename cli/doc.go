// Package cli contains the command line interface for nv.
//
// # Commands
//
//	nv [run] SCRIPT     run a script (the default command)
//	nv check SCRIPT...  report syntax errors
//	nv ast SCRIPT       print the syntax tree as nv, JSON or YAML
//	nv repl [SCRIPT...] start an interactive session
//	nv version          print the interpreter version
//
// Scripts given by name rather than path are looked up in the directories
// named by --include (-I), then in those listed in the NV_PATH environment
// variable. The ".nv" extension may be omitted.
//
// # Configuration
//
// Flag defaults are read from config.json and config.nv in the user
// configuration directory. The latter is an nv script whose top-level
// bindings name flags, with underscores in place of hyphens:
//
//	let log_level = "debug"
//	let log_pretty = false
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on a terminal
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/nv/pprof)
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o nv .
package cli
