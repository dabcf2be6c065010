package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/shlex"
)

// ErrNoEditor is returned when neither $VISUAL nor $EDITOR is set.
var ErrNoEditor = errors.New("no editor configured: set $VISUAL or $EDITOR")

// EditorCommand returns $VISUAL, falling back to $EDITOR.
func EditorCommand() string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	return os.Getenv("EDITOR")
}

// Editor opens text in an external editor.
type Editor struct {
	// Command is split with shell quoting rules; the file path is appended.
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewEditor returns an editor using EditorCommand and the process's stdio.
func NewEditor() *Editor {
	return &Editor{Command: EditorCommand(), Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Edit writes initial to a temporary file named *pattern, runs the editor on
// it and returns the saved content.
func (e *Editor) Edit(ctx context.Context, initial, pattern string) (string, error) {
	if e.Command == "" {
		return "", ErrNoEditor
	}
	args, err := shlex.Split(e.Command)
	if err != nil {
		return "", fmt.Errorf("parsing editor command %q: %w", e.Command, err)
	}
	if len(args) == 0 {
		return "", ErrNoEditor
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = e.Stdin, e.Stdout, e.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running editor %s: %w", args[0], err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited file: %w", err)
	}
	return string(content), nil
}
