package changelog

import (
	"fmt"
	"strings"

	"github.com/bsels/sembump/internal/semver"
)

// StructuralMismatchError is returned when a changelog does not start with
// the required title heading.
type StructuralMismatchError struct {
	Expected string
	Found    string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("changelog must start with the level-1 heading %q, found %s", e.Expected, e.Found)
}

// InvalidNoteBodyError is returned when a note body handed to Merge is not
// a standalone document.
type InvalidNoteBodyError struct {
	Severity semver.Severity
	Index    int
	Kind     string
}

func (e *InvalidNoteBodyError) Error() string {
	return fmt.Sprintf("note body %d in group %s is a %s, expected a document", e.Index, e.Severity.Label(), e.Kind)
}

// InvariantViolation is the panic value raised when a splice leaves the
// document in an inconsistent state. It is never returned as an error.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "changelog: invariant violated: " + e.Detail
}

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found (changelog has no sections)", e.Version)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}
