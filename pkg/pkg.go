//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// Version is the semantic version of the nv module embedded at build time.
// It is printed by the CLI when users invoke the version subcommand.
//
//go:embed VERSION
var Version string

// SemVer returns [Version] parsed as a semantic version, or nil if the
// embedded file does not hold one.
var SemVer = sync.OnceValue(
	func() *semver.Version {
		v, err := semver.NewVersion(strings.TrimSpace(Version))
		if err != nil {
			return nil
		}

		return v
	},
)

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "nv"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Interpreter for the nv scripting language"
	// PathEnv names the environment variable listing directories searched
	// for scripts.
	PathEnv = "NV_PATH"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
