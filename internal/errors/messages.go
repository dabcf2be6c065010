package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/changelog"
	"github.com/bsels/sembump/internal/changenote"
	"github.com/bsels/sembump/internal/config"
	"github.com/bsels/sembump/internal/descriptor"
	"github.com/bsels/sembump/internal/project"
	"github.com/bsels/sembump/internal/semver"
)

// Common error messages for the sembump CLI.

// ProjectNotFound creates an error for a directory without a pom.xml.
func ProjectNotFound(dir string, err error) *CLIError {
	e := NewPrerequisiteError(
		fmt.Sprintf("no %s found at %s", project.DescriptorName, dir),
		"Run sembump from the root of a Maven project",
		"Or point at one with --project <dir>",
	)
	e.Err = err
	return e
}

// UnknownArtifacts creates an error for change notes naming artifacts that
// are not part of the project.
func UnknownArtifacts(keys []artifact.Key) *CLIError {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return NewValidationError(
		fmt.Sprintf("change notes reference unknown artifacts: %s", strings.Join(names, ", ")),
		"Fix the artifact keys in the notes under the versioning directory",
		"Keys use the form groupId:artifactId",
	)
}

// OutOfScopeArtifacts creates an error for notes naming units the mode never bumps.
func OutOfScopeArtifacts(keys []artifact.Key, mode string) *CLIError {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return NewValidationError(
		fmt.Sprintf("change notes reference artifacts outside the %s scope: %s", mode, strings.Join(names, ", ")),
		"Move the entries to a module that is bumped in this mode",
		"Or select another mode with --mode",
	)
}

// InvalidArtifactSpec creates an error for a malformed --artifact value.
func InvalidArtifactSpec(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid artifact bump %q", value),
		"sembump create --artifact groupId:artifactId=minor --message \"...\"",
		"Severities are major, minor, patch or none",
	)
}

// Classify maps domain errors to categorized CLI errors with remediation.
// Errors it does not recognize become runtime errors.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		cfgErr      *config.ValidationError
		cycleErr    *project.CycleError
		dupErr      *project.DuplicateUnitError
		moduleErr   *project.MissingModuleError
		pathErr     *descriptor.PathNotFoundError
		noteErr     *changenote.ParseError
		mismatchErr *changelog.StructuralMismatchError
		versionErr  *changelog.VersionNotFoundError
		fsErr       *fs.PathError
	)

	switch {
	case errors.As(err, &cfgErr):
		return Wrap(err, Configuration,
			"Check the value in "+cfgErr.FilePath,
			"Run 'sembump config show' to see the effective configuration").InFile(cfgErr.FilePath)
	case errors.As(err, &cycleErr):
		return Wrap(err, Validation, "Remove one of the dependencies along the cycle")
	case errors.As(err, &dupErr), errors.As(err, &moduleErr):
		return Wrap(err, Validation, "Fix the <modules> section of the parent pom.xml")
	case errors.As(err, &pathErr):
		return Wrap(err, Validation,
			"Add the missing element to the descriptor",
			"Or choose a mode that matches the project layout with --mode")
	case errors.Is(err, semver.ErrInvalidFormat):
		return Wrap(err, Validation, "Versions must look like 1.2.3 or 1.2.3-SNAPSHOT")
	case errors.As(err, &noteErr), errors.Is(err, changenote.ErrEmptyBumps), errors.Is(err, changenote.ErrMissingFrontmatter):
		e := Wrap(err, Validation,
			"Each note starts with a --- delimited block mapping groupId:artifactId to a severity",
			"Run 'sembump verify' after editing")
		if noteErr != nil {
			e.File = noteErr.Origin
		}
		return e
	case errors.As(err, &mismatchErr):
		return Wrap(err, Validation, fmt.Sprintf("Start the changelog with the heading '# %s'", mismatchErr.Expected))
	case errors.As(err, &versionErr):
		return Wrap(err, Argument, "Run 'sembump changelog' to list all versions")
	case errors.Is(err, fs.ErrNotExist):
		e := Wrap(err, Prerequisite)
		if errors.As(err, &fsErr) {
			e.File = fsErr.Path
		}
		return e
	default:
		return Wrap(err, Runtime)
	}
}
