// Package profile wraps [github.com/pkg/profile] so the nv interpreter can
// be profiled from the command line.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof ./...
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing, so
// callers never need to check [Enabled] before starting a session.
package profile
