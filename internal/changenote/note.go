// Package changenote loads, aggregates and writes change notes.
//
// A change note is a markdown file whose YAML frontmatter maps artifacts to
// bump severities:
//
//	---
//	com.example:core: minor
//	com.example:api: patch
//	---
//
//	Added a streaming reader.
//
// The body below the frontmatter ends up in the changelog of every artifact
// the note names.
package changenote

import (
	"errors"
	"maps"
	"slices"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/markdown"
	"github.com/bsels/sembump/internal/semver"
)

// ErrEmptyBumps is returned when a note would not bump any artifact.
var ErrEmptyBumps = errors.New("change note must name at least one artifact")

// Note is a single change note.
type Note struct {
	// Body is a markdown document node.
	Body *markdown.Node
	// Origin is the file the note was loaded from; empty for generated notes.
	Origin string

	bumps map[artifact.Key]semver.Severity
}

// New creates a note. bumps is copied and must not be empty.
func New(body *markdown.Node, bumps map[artifact.Key]semver.Severity, origin string) (*Note, error) {
	if len(bumps) == 0 {
		return nil, ErrEmptyBumps
	}
	if body == nil {
		body = markdown.NewDocument()
	}
	return &Note{Body: body, Origin: origin, bumps: maps.Clone(bumps)}, nil
}

// Bumps returns a copy of the note's artifact to severity mapping.
func (n *Note) Bumps() map[artifact.Key]semver.Severity {
	return maps.Clone(n.bumps)
}

// Severity returns the severity the note assigns to key, or None.
func (n *Note) Severity(key artifact.Key) semver.Severity {
	return n.bumps[key]
}

// Mentions reports whether the note names key.
func (n *Note) Mentions(key artifact.Key) bool {
	_, ok := n.bumps[key]
	return ok
}

// Keys returns the named artifacts in canonical order.
func (n *Note) Keys() []artifact.Key {
	return slices.SortedFunc(maps.Keys(n.bumps), artifact.Compare)
}

// Synthetic reports whether the note was generated rather than loaded.
func (n *Note) Synthetic() bool {
	return n.Origin == ""
}
