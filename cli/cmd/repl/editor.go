package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

const defaultEditor = "vi"

// ErrEditDeclined is returned when the user chooses not to fix a script that
// failed to parse after editing.
var ErrEditDeclined = errors.New("edit declined")

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop. It
// writes the session transcript to a temporary file, opens the user's
// editor, and parses the result. On a syntax error the user is asked whether
// to edit again.
type editCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	content string
	edited  string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file leaves edited unset.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "nv-repl-*.nv")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.content

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		_, perr := lang.ParseString(ctx, content, lang.WithName(path))

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", perr == nil),
		)

		if perr == nil {
			c.edited = content

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", perr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
