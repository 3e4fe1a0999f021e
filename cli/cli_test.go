package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/nv/cli/cmd"
	"github.com/ardnew/nv/log"
	"github.com/ardnew/nv/pkg"
)

func TestRun(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(pkg.PathEnv, "")

	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	if err := pkg.MkdirAll(); err != nil {
		t.Fatal(err)
	}

	config := pkg.ConfigPath(configName + ".nv")
	if err := os.WriteFile(config, []byte(`let log_level = "warn"`), 0o600); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for name, text := range map[string]string{
		"good.nv": "let x = 1",
		"bad.nv":  "let = 1",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{"check on include path", []string{"check", "-q", "-I", dir, "good"}, nil},
		{"default command", []string{"-I", dir, "good"}, nil},
		{"syntax error", []string{"run", "-I", dir, "bad"}, cmd.ErrSyntax},
		{"not on search path", []string{"check", "-q", "good"}, cmd.ErrScriptNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(t.Context(), func(int) {}, tt.args...)
			if !errors.Is(err, tt.err) || (tt.err == nil && err != nil) {
				t.Fatalf("Run(%v) error = %v, want %v", tt.args, err, tt.err)
			}

			if got := log.Default().Level(); got != log.LevelWarn {
				t.Errorf("log level = %v, want level from %s", got, config)
			}
		})
	}
}
