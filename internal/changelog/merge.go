package changelog

import (
	"fmt"

	"github.com/bsels/sembump/internal/markdown"
	"github.com/bsels/sembump/internal/semver"
)

// Title is the text of the level-1 heading every changelog starts with.
const Title = "Changelog"

// afterSplice runs between splicing and the tail check. Tests use it to
// corrupt the tree.
var afterSplice = func(doc *markdown.Node) {}

// Merge inserts a new version section directly after the title heading of
// doc. The section is a level-2 heading with the given label followed, for
// each non-empty severity group from Major down to None, by a level-3
// heading and the children of every note body in that group.
//
// Note bodies must be document nodes. They are cloned before splicing, so
// the same body may be merged into several changelogs. Everything that
// followed the title before the call follows the new section unchanged,
// including its blank-line layout. The inserted blocks are separated by
// single blank lines.
// doc is mutated in place; clone it first if the original is still needed.
func Merge(doc *markdown.Node, label string, groups map[semver.Severity][]*markdown.Node) error {
	title, err := titleOf(doc)
	if err != nil {
		return err
	}
	if err := validateBodies(groups); err != nil {
		return err
	}

	tail := title.Next()

	last := markdown.NewHeading(2, label)
	doc.InsertAfter(title, last)

	for _, sev := range semver.Descending() {
		bodies := groups[sev]
		if len(bodies) == 0 {
			continue
		}
		heading := markdown.NewHeading(3, sev.Label())
		doc.InsertAfter(last, heading)
		last = heading

		for _, body := range bodies {
			for _, block := range markdown.Clone(body).Children() {
				block.SetBlankBefore(-1)
				doc.InsertAfter(last, block)
				last = block
			}
		}
	}

	afterSplice(doc)
	if next := last.Next(); next != tail {
		panic(&InvariantViolation{
			Detail: fmt.Sprintf("block after inserted section is %s, expected the original tail %s", describe(next), describe(tail)),
		})
	}
	return nil
}

// New returns a changelog containing only the title heading.
func New() *markdown.Node {
	return markdown.NewDocument(markdown.NewHeading(1, Title))
}

func titleOf(doc *markdown.Node) (*markdown.Node, error) {
	if doc == nil || doc.Kind != markdown.KindDocument {
		return nil, &StructuralMismatchError{Expected: Title, Found: "a non-document node"}
	}
	first := doc.FirstChild()
	if !first.IsHeading(1, Title) {
		return nil, &StructuralMismatchError{Expected: Title, Found: describe(first)}
	}
	return first, nil
}

// validateBodies checks every body up front so a bad note leaves doc untouched.
func validateBodies(groups map[semver.Severity][]*markdown.Node) error {
	for _, sev := range semver.Descending() {
		for i, body := range groups[sev] {
			switch {
			case body == nil:
				return &InvalidNoteBodyError{Severity: sev, Index: i, Kind: "nil node"}
			case body.Kind != markdown.KindDocument:
				return &InvalidNoteBodyError{Severity: sev, Index: i, Kind: body.Kind.String()}
			}
		}
	}
	return nil
}

func describe(n *markdown.Node) string {
	switch {
	case n == nil:
		return "nothing"
	case n.Kind == markdown.KindHeading:
		return fmt.Sprintf("level-%d heading %q", n.Level, n.Text)
	default:
		return n.Kind.String()
	}
}
