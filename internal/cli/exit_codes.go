package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/bsels/sembump/internal/errors"
)

// Exit codes for the sembump CLI
// These codes support scripting and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates an unexpected runtime failure
	ExitFailure = 1

	// ExitValidationFailed indicates malformed notes, descriptors or changelogs
	ExitValidationFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingPrerequisites indicates the project or a required file is missing
	ExitMissingPrerequisites = 4

	// ExitConfigError indicates invalid configuration
	ExitConfigError = 5
)

// ExitError carries an exit code for errors that were already reported.
type ExitError struct {
	Code int
}

// NewExitError returns an error that makes Execute exit with code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch clierrors.Classify(err).Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigError
	case clierrors.Prerequisite:
		return ExitMissingPrerequisites
	case clierrors.Validation:
		return ExitValidationFailed
	default:
		return ExitFailure
	}
}
