package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

// watchSettle is how long a burst of file events must be quiet before the
// scripts run again.
const watchSettle = 100 * time.Millisecond

// Run executes a script.
type Run struct {
	Script     string   `arg:"" default:"-" help:"Script path, name on the search path, or '-' for stdin" name:"script"`
	Preload    []string `help:"Script run before the main script, sharing its globals" placeholder:"SCRIPT" short:"l"`
	Define     []string `help:"Bind NAME to the value of an expr-lang expression" placeholder:"NAME=EXPR" short:"D"`
	NoOptimize bool     `help:"Run the main script without optimizing it"`
	Watch      bool     `help:"Run again whenever one of the scripts changes" short:"w"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	globals, err := lang.ParseDefines(r.Define, os.Environ())
	if err != nil {
		return err
	}

	if !r.Watch {
		_, err = r.once(ctx, globals)

		return err
	}

	if r.Script == stdinSource || slices.Contains(r.Preload, stdinSource) {
		return ErrWatch.With(slog.String("reason", "stdin cannot be watched"))
	}

	return r.watch(ctx, globals)
}

// once loads, parses and runs every script a single time with one
// interpreter. Preloaded scripts run unoptimized, since their declarations
// are read by the scripts after them, and the main script is optimized with
// every name they mention left alone. It returns the paths of the files that
// were read.
func (r *Run) once(ctx context.Context, globals map[string]lang.Value) ([]string, error) {
	stdout, stderr := streams(ctx)
	logger := log.With(slog.String("command", "run"))

	srcs, err := loadSources(ctx, append(slices.Clone(r.Preload), r.Script))
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(srcs))
	asts := make([]*lang.AST, 0, len(srcs))

	var failed []error

	for _, src := range srcs {
		if src.name != stdinName {
			paths = append(paths, src.name)
		}

		ast, err := lang.ParseReader(ctx, strings.NewReader(src.text),
			lang.WithName(src.name),
			lang.WithLogger(logger),
		)
		if err != nil {
			Report(stderr, err, src.name, src.text)
			failed = append(failed, ErrSyntax.With(slog.String("script", src.name)))

			continue
		}

		asts = append(asts, ast)
	}

	if len(failed) > 0 {
		return paths, errors.Join(failed...)
	}

	if last := len(asts) - 1; last >= 0 && !r.NoOptimize {
		asts[last] = asts[last].Optimize(ctx, lang.WithShared(asts[:last]...))
	}

	in := lang.NewInterpreter(
		lang.WithGlobals(globals),
		lang.WithLogger(logger),
		lang.WithOutput(stdout),
	)

	for _, ast := range asts {
		if err := in.Run(ctx, ast); err != nil {
			Report(stderr, err, ast.Name, ast.Source)
			failed = append(failed, ErrRuntime.With(slog.String("script", ast.Name)))
		}
	}

	return paths, errors.Join(failed...)
}

// watch runs the scripts, then runs them again after each change to any file
// that was read, until ctx is cancelled. Failures of a single run are logged
// and do not stop watching.
func (r *Run) watch(ctx context.Context, globals map[string]lang.Value) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	dirs := make(map[string]struct{})

	for {
		paths, err := r.once(ctx, globals)
		if err != nil {
			log.WarnContext(ctx, "run failed", slog.Any("error", err))
		}

		files, err := addWatches(w, dirs, paths)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "watching scripts", slog.Int("file_count", len(files)))

		changed, err := waitChange(ctx, w, files)
		if err != nil || !changed {
			return err
		}
	}
}

// addWatches watches the directory of every path, so that files replaced by
// rename are still seen, and returns the set of absolute paths of interest.
func addWatches(
	w *fsnotify.Watcher,
	dirs map[string]struct{},
	paths []string,
) (map[string]struct{}, error) {
	files := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("script", path))
		}

		files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}

		if err := w.Add(dir); err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}

		dirs[dir] = struct{}{}
	}

	if len(files) == 0 {
		return nil, ErrWatch.With(slog.String("reason", "no script files to watch"))
	}

	return files, nil
}

// waitChange blocks until one of files changes and the events settle, or
// until ctx is done. It reports whether a change was seen.
func waitChange(
	ctx context.Context,
	w *fsnotify.Watcher,
	files map[string]struct{},
) (bool, error) {
	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename

	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return false, nil

		case ev, ok := <-w.Events:
			if !ok {
				return false, nil
			}

			if _, hit := files[filepath.Clean(ev.Name)]; hit && ev.Op&relevant != 0 {
				settle = time.After(watchSettle)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return false, nil
			}

			return false, ErrWatch.Wrap(err)

		case <-settle:
			return true, nil
		}
	}
}
