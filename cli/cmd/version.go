package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ardnew/nv/pkg"
)

// Version prints the interpreter version.
type Version struct {
	Short   bool   `help:"Print only the version number" short:"s"`
	Require string `help:"Fail unless the version satisfies a constraint such as '>= 0.1'" placeholder:"CONSTRAINT"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	stdout, _ := streams(ctx)

	ver := pkg.SemVer()

	if v.Require != "" {
		c, err := semver.NewConstraint(v.Require)
		if err != nil {
			return ErrInvalidVersion.Wrap(err).With(slog.String("constraint", v.Require))
		}

		if ver == nil || !c.Check(ver) {
			return ErrVersion.With(
				slog.String("version", strings.TrimSpace(pkg.Version)),
				slog.String("constraint", v.Require),
			)
		}
	}

	number := strings.TrimSpace(pkg.Version)
	if ver != nil {
		number = ver.String()
	}

	if v.Short {
		fmt.Fprintln(stdout, number)

		return nil
	}

	fmt.Fprintf(stdout, "%s %s\n", pkg.Name, number)

	return nil
}
