// Package prompt asks the user questions on the terminal and opens their
// editor. It backs the interactive mode of 'sembump create'.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoInput is returned when input ends before an answer is read.
var ErrNoInput = errors.New("no input")

// Prompter asks questions and returns the answers.
type Prompter interface {
	// Select returns the index of the chosen option. def is preselected.
	Select(question string, options []string, def int) (int, error)
	Confirm(question string, def bool) (bool, error)
	Input(question, def string) (string, error)
}

// Terminal is a line-based Prompter.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a prompter reading answers from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Select prints numbered options and reads a number, or an option's text.
// An empty answer picks def. Invalid answers are asked again.
func (t *Terminal) Select(question string, options []string, def int) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("select: no options")
	}
	for {
		fmt.Fprintln(t.out, question)
		for i, opt := range options {
			marker := " "
			if i == def {
				marker = "*"
			}
			fmt.Fprintf(t.out, " %s %d) %s\n", marker, i+1, opt)
		}
		fmt.Fprintf(t.out, "Choice [%d]: ", def+1)

		answer, err := t.readLine()
		if err != nil {
			return 0, err
		}
		if answer == "" && def >= 0 && def < len(options) {
			return def, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		for i, opt := range options {
			if strings.EqualFold(opt, answer) {
				return i, nil
			}
		}
		fmt.Fprintf(t.out, "Invalid choice %q\n", answer)
	}
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(t.out, "%s [%s]: ", question, hint)
		answer, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// Input reads a free-form answer; empty input returns def.
func (t *Terminal) Input(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(t.out, "%s: ", question)
	}
	answer, err := t.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
