package bump

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/changelog"
	"github.com/bsels/sembump/internal/changenote"
	"github.com/bsels/sembump/internal/descriptor"
	"github.com/bsels/sembump/internal/markdown"
	"github.com/bsels/sembump/internal/project"
	"github.com/bsels/sembump/internal/scope"
	"github.com/bsels/sembump/internal/semver"
)

// Defaults used when Options leave a field empty.
const (
	DefaultChangelogFile     = "CHANGELOG.md"
	DefaultDependencyMessage = "Updated dependency {artifact} to {version}"
)

// Options configure a Planner.
type Options struct {
	Mode scope.Mode
	// Force, when not None, replaces the severity of every unit in scope.
	// Notes still provide the changelog content.
	Force             semver.Severity
	ChangelogFile     string
	HeaderFormat      string
	DependencyMessage string
	Now               func() time.Time
}

// FileKind classifies a planned file change.
type FileKind int

const (
	KindDescriptor FileKind = iota
	KindChangelog
)

func (k FileKind) String() string {
	if k == KindChangelog {
		return "changelog"
	}
	return "descriptor"
}

// FileChange is the new content of one file.
type FileChange struct {
	Path   string
	Kind   FileKind
	Before []byte // nil when the file does not exist yet
	After  []byte
}

// UnitPlan records the update of one unit.
type UnitPlan struct {
	Key      artifact.Key
	Severity semver.Severity
	Old      *semver.Version
	New      *semver.Version
	Notes    []*changenote.Note
	// Dependencies are the references rewritten in this unit's descriptor.
	Dependencies []artifact.Ref
}

// Plan is the full set of changes for one update run.
type Plan struct {
	Mode  scope.Mode
	Units []UnitPlan
	Files []FileChange
	// Consumed lists the note files to delete once the plan is written:
	// those whose body reached at least one changelog. Notes that only
	// declare none, or only name unknown or out-of-scope units, stay.
	Consumed []string
	// Unknown lists note keys that name no unit of the project.
	Unknown []artifact.Key
	// OutOfScope lists note keys naming units outside the resolved scope.
	OutOfScope []artifact.Key
}

// Empty reports whether the plan changes no file.
func (p *Plan) Empty() bool {
	return len(p.Files) == 0
}

// Planner computes update plans.
type Planner struct {
	opts Options
}

// NewPlanner returns a planner, filling unset options with defaults.
func NewPlanner(opts Options) *Planner {
	if opts.ChangelogFile == "" {
		opts.ChangelogFile = DefaultChangelogFile
	}
	if opts.HeaderFormat == "" {
		opts.HeaderFormat = changelog.DefaultHeaderFormat
	}
	if opts.DependencyMessage == "" {
		opts.DependencyMessage = DefaultDependencyMessage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Planner{opts: opts}
}

// Plan computes the changes notes imply for r. It edits the descriptors
// held by r's units in place; load a fresh reactor for every plan.
func (p *Planner) Plan(r *project.Reactor, notes []*changenote.Note) (*Plan, error) {
	sc := scope.Resolve(p.opts.Mode, r)
	agg := changenote.Aggregate(notes)

	plan := &Plan{Mode: p.opts.Mode}
	for _, key := range agg.Keys() {
		switch {
		case !r.Contains(key):
			plan.Unknown = append(plan.Unknown, key)
		case p.opts.Mode != scope.SharedRevisionProperty && !sc.Contains(key):
			plan.OutOfScope = append(plan.OutOfScope, key)
		}
	}
	if sc.Empty() {
		return plan, nil
	}

	b := &builder{planner: p, reactor: r, plan: plan, changelogs: make(map[artifact.Key]FileChange)}

	var err error
	if p.opts.Mode == scope.SharedRevisionProperty {
		err = b.planRevision(sc, notes, agg)
	} else {
		err = b.planUnits(sc, agg)
	}
	if err != nil {
		return nil, err
	}
	b.collectFiles()

	var merged []*changenote.Note
	for _, u := range plan.Units {
		merged = append(merged, u.Notes...)
	}
	plan.Consumed = changenote.Origins(merged)
	return plan, nil
}

type builder struct {
	planner    *Planner
	reactor    *project.Reactor
	plan       *Plan
	touched    []artifact.Key
	changelogs map[artifact.Key]FileChange
}

func (b *builder) planUnits(sc scope.Scope, agg *changenote.Aggregation) error {
	opts := b.planner.opts
	bumped := make(map[artifact.Key]*semver.Version)

	for _, key := range sc.Units {
		u, _ := b.reactor.Unit(key)
		updated := updateReferences(u.Doc, bumped)
		if len(updated) > 0 {
			b.touch(key)
		}

		severity := agg.Severity(key)
		if opts.Force != semver.None {
			severity = opts.Force
		}
		groups := agg.Grouped(key)
		notes := agg.NotesFor(key)
		for _, ref := range updated {
			n := b.dependencyNote(key, ref)
			groups[semver.Patch] = append(groups[semver.Patch], n)
			notes = append(notes, n)
			severity = semver.Max(severity, semver.Patch)
		}
		if severity == semver.None {
			continue
		}

		res, err := Apply(u.Doc, sc.VersionPath, severity)
		if err != nil {
			return fmt.Errorf("%s (%s): %w", key, u.DescriptorPath, err)
		}
		b.touch(key)
		bumped[key] = res.New

		if err := b.mergeChangelog(u, res.New, groups); err != nil {
			return err
		}
		b.plan.Units = append(b.plan.Units, UnitPlan{
			Key:          key,
			Severity:     severity,
			Old:          res.Old,
			New:          res.New,
			Notes:        notes,
			Dependencies: updated,
		})
	}

	// Units outside the scope still follow the new versions of their dependencies.
	for _, key := range b.reactor.Sorted() {
		if sc.Contains(key) {
			continue
		}
		u, _ := b.reactor.Unit(key)
		if len(updateReferences(u.Doc, bumped)) > 0 {
			b.touch(key)
		}
	}
	return nil
}

func (b *builder) planRevision(sc scope.Scope, notes []*changenote.Note, agg *changenote.Aggregation) error {
	opts := b.planner.opts
	key := sc.Units[0]
	u, _ := b.reactor.Unit(key)

	severity := agg.Max()
	if opts.Force != semver.None {
		severity = opts.Force
	}
	if severity == semver.None {
		return nil
	}

	res, err := Apply(u.Doc, sc.VersionPath, severity)
	if err != nil {
		return fmt.Errorf("%s (%s): %w", key, u.DescriptorPath, err)
	}
	b.touch(key)

	// A shared version has one changelog; each note lands under the highest
	// severity it declares for any artifact.
	groups := make(map[semver.Severity][]*changenote.Note)
	for _, n := range notes {
		s := semver.MaxOf(slices.Collect(maps.Values(n.Bumps()))...)
		groups[s] = append(groups[s], n)
	}
	if err := b.mergeChangelog(u, res.New, groups); err != nil {
		return err
	}

	b.plan.Units = append(b.plan.Units, UnitPlan{
		Key:      key,
		Severity: severity,
		Old:      res.Old,
		New:      res.New,
		Notes:    slices.Clone(notes),
	})
	return nil
}

func (b *builder) mergeChangelog(u *project.Unit, version *semver.Version, groups map[semver.Severity][]*changenote.Note) error {
	opts := b.planner.opts
	path := filepath.Join(u.Dir, opts.ChangelogFile)

	before, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading changelog: %w", err)
	}
	doc := changelog.New()
	if before != nil {
		doc = markdown.Parse(before)
	}

	label := changelog.FormatHeader(opts.HeaderFormat, version.String(), opts.Now())
	if err := changelog.Merge(doc, label, changenote.Bodies(groups)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	b.changelogs[u.Key] = FileChange{Path: path, Kind: KindChangelog, Before: before, After: markdown.Render(doc)}
	return nil
}

func (b *builder) dependencyNote(owner artifact.Key, ref artifact.Ref) *changenote.Note {
	msg := strings.NewReplacer(
		"{artifact}", ref.Key.String(),
		"{version}", ref.Version.String(),
	).Replace(b.planner.opts.DependencyMessage)

	// New only fails on empty bumps.
	n, _ := changenote.New(markdown.ParseString(msg), map[artifact.Key]semver.Severity{owner: semver.Patch}, "")
	return n
}

func (b *builder) touch(key artifact.Key) {
	if !slices.Contains(b.touched, key) {
		b.touched = append(b.touched, key)
	}
}

// collectFiles lists descriptor and changelog changes in dependency order.
func (b *builder) collectFiles() {
	for _, key := range b.reactor.Sorted() {
		u, _ := b.reactor.Unit(key)
		if slices.Contains(b.touched, key) && u.Doc.Modified() {
			b.plan.Files = append(b.plan.Files, FileChange{
				Path:   u.DescriptorPath,
				Kind:   KindDescriptor,
				Before: u.Doc.Original(),
				After:  u.Doc.Bytes(),
			})
		}
		if c, ok := b.changelogs[key]; ok {
			b.plan.Files = append(b.plan.Files, c)
		}
	}
}

// updateReferences rewrites references in doc to units that were bumped and
// returns the new references, one per artifact.
func updateReferences(doc *descriptor.Document, bumped map[artifact.Key]*semver.Version) []artifact.Ref {
	var updated []artifact.Ref
	for _, ref := range doc.References() {
		next, ok := bumped[ref.Key]
		if !ok || ref.Version.Equal(next) {
			continue
		}
		ref.VersionNode.SetText(next.String())
		if !slices.ContainsFunc(updated, func(r artifact.Ref) bool { return r.Key == ref.Key }) {
			updated = append(updated, artifact.Ref{Key: ref.Key, Version: next})
		}
	}
	return updated
}
