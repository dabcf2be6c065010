// Package version holds the sembump build information.
// It has no internal dependencies and can be imported from any package.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Resolved returns the version, falling back to the module version recorded
// by 'go install' when no ldflags were set.
func Resolved() string {
	if !IsDevBuild() {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String formats the full build information on one line.
func String() string {
	return fmt.Sprintf("sembump %s (commit %s, built %s)", Resolved(), Commit, BuildDate)
}
