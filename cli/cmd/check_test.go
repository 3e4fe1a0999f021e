package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.nv", "let x = 1\nprint(x)")
	bad := writeScript(t, dir, "bad.nv", "let x = ")

	ctx, stdout, stderr := testContext(t, dir)

	c := Check{Scripts: []string{"good", "bad"}}

	err := c.Run(ctx)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Run() error = %v, want %v", err, ErrSyntax)
	}

	if got, want := stdout.String(), good+": ok\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	if !strings.HasPrefix(stderr.String(), bad+":1:") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCheck_Quiet(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "good.nv", "print(1)")

	ctx, stdout, _ := testContext(t, dir)

	c := Check{Scripts: []string{"good"}, Quiet: true}
	if err := c.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if stdout.String() != "" {
		t.Errorf("quiet check wrote %q", stdout.String())
	}
}
