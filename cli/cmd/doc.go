// Package cmd implements the nv subcommands.
//
// Each command is a [kong] command struct with a Run(context.Context) method:
//
//   - [Run] executes a script, optionally preloading others, binding
//     host constants with --define, and re-running on change with --watch.
//   - [Check] reports syntax errors without running anything.
//   - [AST] prints a syntax tree as nv source, JSON or YAML.
//   - [Repl] starts an interactive session.
//   - [Version] prints the version and can assert a semver constraint.
//
// Script names that do not exist relative to the working directory are
// looked up on the search path stored with [WithSearchPath]. Errors are
// written to the command's error stream by [Report], which quotes the
// offending source line.
package cmd
