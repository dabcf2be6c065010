package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette paints the parts of an error report.
type palette struct {
	label, message, category, file, usage, fix func(a ...any) string
}

func newPalette(useColors bool) palette {
	if !useColors {
		return palette{fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint}
	}
	return palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		file:     color.New(color.Faint).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	}
}

// FormatError renders err for the terminal, colored unless color.NoColor
// is set (--no-color, NO_COLOR, or no TTY).
func FormatError(err *CLIError) string {
	return render(err, newPalette(!color.NoColor))
}

// FormatErrorPlain renders err without colors.
func FormatErrorPlain(err *CLIError) string {
	return render(err, newPalette(false))
}

func render(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))
	if err.File != "" {
		fmt.Fprintf(&sb, "  %s\n", p.file("in "+err.File))
	}
	if err.Usage != "" {
		fmt.Fprintf(&sb, "\nUsage: %s\n", p.usage(err.Usage))
	}
	if len(err.Remediation) == 0 {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
	for _, step := range err.Remediation {
		fmt.Fprintf(&sb, "  • %s\n", step)
	}
	return sb.String()
}

// FprintError writes the formatted err to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	_, _ = io.WriteString(w, FormatError(err))
}
