package descriptor

import (
	"fmt"
	"iter"
	"strings"
)

// Path is an ordered list of element names starting at the root element.
type Path []string

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Common paths into a Maven descriptor.
var (
	ProjectVersionPath   = Path{"project", "version"}
	RevisionPropertyPath = Path{"project", "properties", "revision"}
	GroupIDPath          = Path{"project", "groupId"}
	ArtifactIDPath       = Path{"project", "artifactId"}
	ParentPath           = Path{"project", "parent"}
	ModulePath           = Path{"project", "modules", "module"}
)

// PathNotFoundError is returned when a path segment has no matching element.
type PathNotFoundError struct {
	Path    Path
	Segment string
	// Parent is the path of the element that was searched; empty when the
	// root element itself did not match.
	Parent Path
}

func (e *PathNotFoundError) Error() string {
	if len(e.Parent) == 0 {
		return fmt.Sprintf("path %s not found: root element is not <%s>", e.Path, e.Segment)
	}
	return fmt.Sprintf("path %s not found: no <%s> under %s", e.Path, e.Segment, e.Parent)
}

// LocateSingle walks path from the root, taking the first matching child at
// every step.
func (d *Document) LocateSingle(path Path) (*Node, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	if d.Root == nil || d.Root.Name != path[0] {
		return nil, &PathNotFoundError{Path: path, Segment: path[0]}
	}

	cur := d.Root
	for i, seg := range path[1:] {
		next := cur.Child(seg)
		if next == nil {
			return nil, &PathNotFoundError{Path: path, Segment: seg, Parent: path[:i+1]}
		}
		cur = next
	}
	return cur, nil
}

// LocateAll yields every element matching the last segment of path under
// the first match of the preceding segments. A missing intermediate element
// yields nothing. The sequence re-walks the document each time it is ranged
// over, so it observes the tree as it is at that moment.
func (d *Document) LocateAll(path Path) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if len(path) == 0 || d.Root == nil {
			return
		}
		if len(path) == 1 {
			if d.Root.Name == path[0] {
				yield(d.Root)
			}
			return
		}

		parent, err := d.LocateSingle(path[:len(path)-1])
		if err != nil {
			return
		}
		last := path[len(path)-1]
		for _, c := range parent.Children {
			if c.Name == last && !yield(c) {
				return
			}
		}
	}
}

// Text returns the text at path, or "" when the path does not exist.
func (d *Document) Text(path Path) string {
	n, err := d.LocateSingle(path)
	if err != nil {
		return ""
	}
	return n.Text()
}
