package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Write raw markdown without styling
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes sections to w. Unless Plain is set, the markdown is
// styled for the terminal with glamour.
func FormatTerminal(sections []Section, w io.Writer, opts FormatOptions) error {
	if len(sections) == 0 {
		return nil
	}

	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.Markdown()
	}
	source := strings.Join(parts, "\n")

	if opts.Plain {
		_, err := io.WriteString(w, source)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(resolveWidth(opts.MaxWidth)),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(source)
	if err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w, 120)
	}
	return 80
}
