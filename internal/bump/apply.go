// Package bump computes and writes version updates for a project.
//
// Apply is the single-descriptor primitive. Planner runs it over every unit
// in scope, propagating new versions to dependent descriptors and splicing
// changelog sections, and Executor writes the resulting plan to disk.
package bump

import (
	"fmt"

	"github.com/bsels/sembump/internal/descriptor"
	"github.com/bsels/sembump/internal/semver"
)

// Result describes one version field update.
type Result struct {
	Path descriptor.Path
	Old  *semver.Version
	New  *semver.Version
}

// Changed reports whether the version moved.
func (r Result) Changed() bool {
	return r.Old != r.New
}

// Apply bumps the version stored at path in doc by severity. The descriptor
// is only edited when the version changes.
func Apply(doc *descriptor.Document, path descriptor.Path, severity semver.Severity) (Result, error) {
	node, err := doc.LocateSingle(path)
	if err != nil {
		return Result{}, err
	}
	old, err := semver.Parse(node.Text())
	if err != nil {
		return Result{}, fmt.Errorf("version at %s: %w", path, err)
	}

	next := old.Bump(severity)
	if next != old {
		node.SetText(next.String())
	}
	return Result{Path: path, Old: old, New: next}, nil
}
