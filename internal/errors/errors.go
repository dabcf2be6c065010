// Package errors turns failures into reports for the sembump CLI: a
// category that selects the exit code, the offending file when one is known,
// and the steps that fix the problem.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory selects the exit code and the label of a report.
type ErrorCategory int

const (
	Argument ErrorCategory = iota
	Configuration
	// Prerequisite: no project, no repository, or an unreadable file.
	Prerequisite
	// Validation: malformed descriptors, change notes or changelogs.
	Validation
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Validation:    "Validation Error",
	Runtime:       "Runtime Error",
}

func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is a categorized error with remediation steps.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// File is the note, descriptor, changelog or config file at fault.
	File        string
	Remediation []string
	// Usage is the correct command line, for argument errors.
	Usage string
	Err   error
}

func (e *CLIError) Error() string { return e.Message }

func (e *CLIError) Unwrap() error { return e.Err }

// New returns an error of the given category.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

func NewArgumentError(message string, remediation ...string) *CLIError {
	return New(Argument, message, remediation...)
}

// NewArgumentErrorWithUsage also shows the command line that would work.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	e := New(Argument, message, remediation...)
	e.Usage = usage
	return e
}

func NewConfigError(message string, remediation ...string) *CLIError {
	return New(Configuration, message, remediation...)
}

func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return New(Prerequisite, message, remediation...)
}

func NewValidationError(message string, remediation ...string) *CLIError {
	return New(Validation, message, remediation...)
}

func NewRuntimeError(message string, remediation ...string) *CLIError {
	return New(Runtime, message, remediation...)
}

// Wrap categorizes err and keeps its message. Wrap(nil, ...) is nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := New(category, err.Error(), remediation...)
	e.Err = err
	return e
}

// WrapWithMessage categorizes err and prefixes its message with context.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := New(category, fmt.Sprintf("%s: %v", message, err), remediation...)
	e.Err = err
	return e
}

// InFile records the file the error points at and returns e.
func (e *CLIError) InFile(path string) *CLIError {
	e.File = path
	return e
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		return nil
	}
	return cliErr
}
