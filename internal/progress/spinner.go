package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps briandowns/spinner. On a non-terminal it is silent.
type Spinner struct {
	s       *spinner.Spinner
	out     io.Writer
	symbols ProgressSymbols
}

// NewSpinner returns a spinner writing to out. The spinner only animates
// when caps.IsTTY is set.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	sp := &Spinner{out: out, symbols: SelectSymbols(caps)}
	if caps.IsTTY {
		sp.s = spinner.New(spinner.CharSets[sp.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return sp
}

// Start begins animating with message as the suffix.
func (sp *Spinner) Start(message string) {
	if sp.s == nil {
		return
	}
	sp.s.Suffix = " " + message
	sp.s.Start()
}

// Success stops the spinner and prints a checkmark line.
func (sp *Spinner) Success(message string) {
	sp.stop(sp.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure line.
func (sp *Spinner) Fail(message string) {
	sp.stop(sp.symbols.Failure, message)
}

func (sp *Spinner) stop(symbol, message string) {
	if sp.s == nil {
		return
	}
	sp.s.Stop()
	fmt.Fprintf(sp.out, "%s %s\n", symbol, message)
}
