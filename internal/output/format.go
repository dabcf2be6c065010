// Package output provides terminal output formatting for the sembump CLI:
// status lines, the plan table and unified diffs for dry runs.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the width of w when it is a terminal, defaulting to 80.
func GetTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintSuccess prints a green checkmark followed by message.
func PrintSuccess(out io.Writer, format string, args ...any) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// PrintWarning prints a yellow warning line.
func PrintWarning(out io.Writer, format string, args ...any) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("!"), fmt.Sprintf(format, args...))
}

// PrintHeader prints a bold cyan section header.
func PrintHeader(out io.Writer, title string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s\n", cyan(title))
}

// PrintPath prints a dimmed "→ label path" line.
func PrintPath(out io.Writer, label, path string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", magenta("→ "+label), dim(path))
}
