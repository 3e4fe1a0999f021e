package cmd

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		scripts map[string]string
		run     Run
		stdout  string
		stderr  []string
		err     error
	}{
		{
			name:    "print",
			scripts: map[string]string{"main.nv": `let greeting = "hi"` + "\n" + `print(greeting, "there")`},
			run:     Run{Script: "main"},
			stdout:  "hi there\n",
		},
		{
			name:    "unoptimized",
			scripts: map[string]string{"main.nv": "let a = 1\na = a + 1\nprint(a)"},
			run:     Run{Script: "main", NoOptimize: true},
			stdout:  "2\n",
		},
		{
			name:    "define",
			scripts: map[string]string{"main.nv": "print(who, n * 2)"},
			run:     Run{Script: "main", Define: []string{`who="nv"`, "n=2 + 3"}},
			stdout:  "nv 10\n",
		},
		{
			name: "preload shares globals",
			scripts: map[string]string{
				"lib.nv":  "let base = 40\nfn plus(n) = base + n",
				"main.nv": "print(plus(2))",
			},
			run:    Run{Script: "main", Preload: []string{"lib"}},
			stdout: "42\n",
		},
		{
			name: "preload writes a main global",
			scripts: map[string]string{
				"lib.nv":  "fn bump() { counter = counter + 1 }",
				"main.nv": "let counter = 0\nbump()\nprint(counter)",
			},
			run:    Run{Script: "main", Preload: []string{"lib"}},
			stdout: "1\n",
		},
		{
			name: "preload reads a main global",
			scripts: map[string]string{
				"lib.nv":  "fn show() = print(level)",
				"main.nv": "let level = 1\nlevel = 2\nshow()",
			},
			run:    Run{Script: "main", Preload: []string{"lib"}},
			stdout: "2\n",
		},
		{
			name:    "else on its own line unoptimized",
			scripts: map[string]string{"main.nv": "if false {\n  print(1)\n}\nelse {\n  print(2)\n}"},
			run:     Run{Script: "main", NoOptimize: true},
			stdout:  "2\n",
		},
		{
			name:    "syntax error",
			scripts: map[string]string{"main.nv": "print(1)\nlet = 2"},
			run:     Run{Script: "main"},
			stderr:  []string{"main.nv:2:", "error:", "2 | let = 2"},
			err:     ErrSyntax,
		},
		{
			name:    "runtime errors do not stop the script",
			scripts: map[string]string{"main.nv": "print([1] + 1)\nprint(\"after\")"},
			run:     Run{Script: "main"},
			stdout:  "after\n",
			stderr:  []string{"main.nv:1:7: error: unsupported operation"},
			err:     ErrRuntime,
		},
		{
			name: "missing script",
			run:  Run{Script: "absent"},
			err:  ErrScriptNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, text := range tt.scripts {
				writeScript(t, dir, name, text)
			}

			ctx, stdout, stderr := testContext(t, dir)

			err := tt.run.Run(ctx)
			if !errors.Is(err, tt.err) || (tt.err == nil && err != nil) {
				t.Fatalf("Run() error = %v, want %v\nstderr:\n%s", err, tt.err, stderr)
			}

			if got := stdout.String(); got != tt.stdout {
				t.Errorf("stdout = %q, want %q", got, tt.stdout)
			}

			for _, want := range tt.stderr {
				if !strings.Contains(stderr.String(), qualify(dir, want)) {
					t.Errorf("stderr missing %q:\n%s", want, stderr)
				}
			}
		})
	}
}

// qualify prefixes a report fragment that begins with a script file name.
func qualify(dir, fragment string) string {
	if strings.HasPrefix(fragment, "main.nv") {
		return dir + string(os.PathSeparator) + fragment
	}

	return fragment
}

func TestRun_InvalidDefine(t *testing.T) {
	ctx, _, _ := testContext(t)

	r := Run{Script: "-", Define: []string{"no equals sign"}}
	if err := r.Run(ctx); err == nil {
		t.Error("Run() accepted a malformed define")
	}
}

func TestRun_WatchStdin(t *testing.T) {
	ctx, _, _ := testContext(t)

	r := Run{Script: "-", Watch: true}
	if err := r.Run(ctx); !errors.Is(err, ErrWatch) {
		t.Errorf("Run() error = %v, want %v", err, ErrWatch)
	}
}

func TestRun_Watch(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "main.nv", "print(1)")

	ctx, stdout, _ := testContext(t, dir)
	ctx, cancel := context.WithCancel(ctx)

	done := make(chan error, 1)

	go func() {
		r := Run{Script: script, Watch: true}
		done <- r.Run(ctx)
	}()

	waitFor := func(want string, touch func()) {
		t.Helper()

		deadline := time.Now().Add(5 * time.Second)
		for !strings.Contains(stdout.String(), want) {
			if time.Now().After(deadline) {
				cancel()
				t.Fatalf("stdout never contained %q: %q", want, stdout.String())
			}

			if touch != nil {
				touch()
			}

			time.Sleep(200 * time.Millisecond)
		}
	}

	waitFor("1\n", nil)

	// Rewrite until the watcher, which starts after the first run, sees it.
	waitFor("2\n", func() { writeScript(t, dir, "main.nv", "print(2)") })

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
