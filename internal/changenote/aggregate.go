package changenote

import (
	"maps"
	"slices"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/markdown"
	"github.com/bsels/sembump/internal/semver"
)

// Aggregation is the combined view of a set of notes: the highest severity
// per artifact and, per artifact, every note that names it in input order.
// It is immutable; accessors return copies.
type Aggregation struct {
	bumps map[artifact.Key]semver.Severity
	notes map[artifact.Key][]*Note
}

// Aggregate folds notes into an Aggregation. It never fails; no notes give
// an empty aggregation.
func Aggregate(notes []*Note) *Aggregation {
	agg := &Aggregation{
		bumps: make(map[artifact.Key]semver.Severity),
		notes: make(map[artifact.Key][]*Note),
	}
	for _, n := range notes {
		for _, key := range n.Keys() {
			agg.bumps[key] = semver.Max(agg.bumps[key], n.bumps[key])
			agg.notes[key] = append(agg.notes[key], n)
		}
	}
	return agg
}

// Bumps returns the per-artifact maximum severity.
func (a *Aggregation) Bumps() map[artifact.Key]semver.Severity {
	return maps.Clone(a.bumps)
}

// Notes returns, per artifact, the notes naming it in input order.
func (a *Aggregation) Notes() map[artifact.Key][]*Note {
	out := make(map[artifact.Key][]*Note, len(a.notes))
	for k, v := range a.notes {
		out[k] = slices.Clone(v)
	}
	return out
}

// Severity returns the aggregated severity for key; None when no note names it.
func (a *Aggregation) Severity(key artifact.Key) semver.Severity {
	return a.bumps[key]
}

// NotesFor returns the notes naming key in input order.
func (a *Aggregation) NotesFor(key artifact.Key) []*Note {
	return slices.Clone(a.notes[key])
}

// Keys returns every named artifact in canonical order.
func (a *Aggregation) Keys() []artifact.Key {
	return slices.SortedFunc(maps.Keys(a.bumps), artifact.Compare)
}

// Max returns the highest severity over all artifacts.
func (a *Aggregation) Max() semver.Severity {
	return semver.MaxOf(slices.Collect(maps.Values(a.bumps))...)
}

// Len returns the number of distinct artifacts.
func (a *Aggregation) Len() int {
	return len(a.bumps)
}

// Grouped buckets the notes for key by the severity each note assigns to it.
func (a *Aggregation) Grouped(key artifact.Key) map[semver.Severity][]*Note {
	out := make(map[semver.Severity][]*Note)
	for _, n := range a.notes[key] {
		sev := n.bumps[key]
		out[sev] = append(out[sev], n)
	}
	return out
}

// Bodies converts grouped notes to the note bodies they carry.
func Bodies(groups map[semver.Severity][]*Note) map[semver.Severity][]*markdown.Node {
	out := make(map[semver.Severity][]*markdown.Node, len(groups))
	for sev, notes := range groups {
		for _, n := range notes {
			out[sev] = append(out[sev], n.Body)
		}
	}
	return out
}
