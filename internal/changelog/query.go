package changelog

import (
	"strings"

	"github.com/bsels/sembump/internal/markdown"
)

// Section is one level-2 version section of a changelog.
type Section struct {
	Heading string
	// Version is the first word of the heading, e.g. "1.2.0" for "1.2.0 - 2025-01-01".
	Version string
	Blocks  []*markdown.Node
}

// Markdown renders the section, heading included, as a standalone document.
func (s Section) Markdown() string {
	doc := markdown.NewDocument(markdown.NewHeading(2, s.Heading))
	for _, b := range s.Blocks {
		doc.AppendChild(markdown.Clone(b))
	}
	return markdown.RenderString(doc)
}

// Sections returns the version sections of doc in document order (newest first).
func Sections(doc *markdown.Node) []Section {
	var sections []Section
	var current *Section

	for _, n := range doc.Children() {
		if n.Kind == markdown.KindHeading && n.Level <= 2 {
			if current != nil {
				sections = append(sections, *current)
				current = nil
			}
			if n.Level == 2 {
				current = &Section{Heading: n.Text, Version: headingVersion(n.Text)}
			}
			continue
		}
		if current != nil {
			current.Blocks = append(current.Blocks, n)
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// FindSection retrieves the section for a version.
// Accepts both "v0.6.0" and "0.6.0" formats.
func FindSection(doc *markdown.Node, version string) (*Section, error) {
	sections := Sections(doc)
	want := NormalizeVersion(version)

	for i := range sections {
		if NormalizeVersion(sections[i].Version) == want {
			return &sections[i], nil
		}
	}

	available := make([]string, len(sections))
	for i, s := range sections {
		available[i] = s.Version
	}
	return nil, &VersionNotFoundError{Version: version, AvailableVersions: available}
}

// NormalizeVersion strips surrounding whitespace and a leading "v" or "V".
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 1 && (v[0] == 'v' || v[0] == 'V') && v[1] >= '0' && v[1] <= '9' {
		return v[1:]
	}
	return v
}

func headingVersion(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "[]")
}
