package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// scriptExt is appended to script names that are not found as given.
const scriptExt = ".nv"

// SearchPath returns the directories searched for scripts: dirs first, then
// the entries of env, a list in the form of the PATH environment variable.
func SearchPath(dirs []string, env string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	var path []string

	for _, dir := range filepath.SplitList(list) {
		if dir = strings.TrimSpace(dir); dir != "" {
			path = append(path, dir)
		}
	}

	return path
}

// findScript returns the path of the script called name. A name that exists
// relative to the working directory, or is absolute, is used as is. Otherwise
// each directory of dirs is tried in order, first with name and then with
// name plus the ".nv" extension.
func findScript(name string, dirs []string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			for _, cand := range []string{name, name + scriptExt} {
				if path := filepath.Join(dir, cand); isFile(path) {
					return path, nil
				}
			}
		}
	}

	return "", ErrScriptNotFound.With(
		slog.String("script", name),
		slog.Any("search_path", dirs),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
