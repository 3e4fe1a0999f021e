package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// streams returns the writers commands print results and diagnostics to.
func streams(ctx context.Context) (stdout, stderr io.Writer) {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Stdout, ktx.Stderr
	}

	return os.Stdout, os.Stderr
}

type searchPathKey struct{}

// WithSearchPath returns a new context.Context carrying the directories
// searched for scripts that are not found relative to the working directory.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// source is the text of one script together with the name used for it in
// diagnostics.
type source struct {
	name string
	text string
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the diagnostic name of a script read from stdin.
const stdinName = "<stdin>"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// loadSources reads every named script in order. Names are resolved against
// the search path stored in ctx. A file reached through more than one name
// (a symlink, a relative and an absolute path, or "-" given twice) is read
// only once, at its first position.
func loadSources(ctx context.Context, names []string) ([]source, error) {
	dirs := searchPathFrom(ctx)
	seen := make(map[fileKey]struct{})
	srcs := make([]source, 0, len(names))

	var readStdin bool

	for _, name := range names {
		if name == stdinSource {
			if readStdin {
				continue
			}

			readStdin = true

			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, ErrReadSource.Wrap(err).With(slog.String("source", stdinName))
			}

			srcs = append(srcs, source{name: stdinName, text: string(data)})

			continue
		}

		path, err := findScript(name, dirs)
		if err != nil {
			return nil, err
		}

		src, ok, err := readUnique(path, seen)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("source", path))
		}

		if ok {
			srcs = append(srcs, src)
		}
	}

	return srcs, nil
}

// readUnique reads the file at path unless a file with the same identity was
// already recorded in seen. The reported name is path as given, so
// diagnostics refer to the file the way the user named it.
func readUnique(path string, seen map[fileKey]struct{}) (source, bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return source{}, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return source{}, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return source{}, false, nil
		}

		seen[key] = struct{}{}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return source{}, false, err
	}

	return source{name: path, text: string(data)}, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert // Dev is int32 on darwin
}
