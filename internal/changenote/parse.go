package changenote

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/markdown"
	"github.com/bsels/sembump/internal/semver"
)

// ErrMissingFrontmatter is returned when a note does not start with a
// "---" delimited YAML block.
var ErrMissingFrontmatter = errors.New("no frontmatter block found")

const delimiter = "---"

// ParseError reports a problem with a specific note file.
type ParseError struct {
	Origin string
	Line   int // 0 when not tied to a line
	Err    error
}

func (e *ParseError) Error() string {
	origin := e.Origin
	if origin == "" {
		origin = "change note"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", origin, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", origin, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a change note. Bare artifact names in the frontmatter resolve
// against defaultNamespace; when it is empty every key must be "group:name".
func Parse(content []byte, origin, defaultNamespace string) (*Note, error) {
	front, body, frontLine, err := splitFrontmatter(content)
	if err != nil {
		return nil, &ParseError{Origin: origin, Err: err}
	}

	bumps, err := parseBumps(front, defaultNamespace)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Origin = origin
			pe.Line += frontLine
			return nil, pe
		}
		return nil, &ParseError{Origin: origin, Err: err}
	}

	note, err := New(markdown.Parse(body), bumps, origin)
	if err != nil {
		return nil, &ParseError{Origin: origin, Err: err}
	}
	return note, nil
}

// splitFrontmatter returns the YAML text, the body and the line offset of
// the YAML text within content.
func splitFrontmatter(content []byte) (front, body []byte, line int, err error) {
	text := strings.ReplaceAll(string(bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})), "\r\n", "\n")
	lines := strings.SplitAfter(text, "\n")

	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\n") != delimiter {
		return nil, nil, 0, ErrMissingFrontmatter
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\n") == delimiter {
			front = []byte(strings.Join(lines[1:i], ""))
			body = []byte(strings.Join(lines[i+1:], ""))
			return front, body, 1, nil
		}
	}
	return nil, nil, 0, fmt.Errorf("%w: closing %q missing", ErrMissingFrontmatter, delimiter)
}

func parseBumps(front []byte, defaultNamespace string) (map[artifact.Key]semver.Severity, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(front, &doc); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrEmptyBumps
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: mapping.Line, Err: errors.New("frontmatter must be a mapping of artifact to severity")}
	}

	bumps := make(map[artifact.Key]semver.Severity, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k, v := mapping.Content[i], mapping.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, &ParseError{Line: k.Line, Err: errors.New("artifact and severity must be plain values")}
		}

		key, err := artifact.ParseKeyDefault(k.Value, defaultNamespace)
		if err != nil {
			return nil, &ParseError{Line: k.Line, Err: err}
		}
		sev, err := semver.ParseSeverity(v.Value)
		if err != nil {
			return nil, &ParseError{Line: v.Line, Err: err}
		}
		bumps[key] = semver.Max(bumps[key], sev)
	}
	if len(bumps) == 0 {
		return nil, ErrEmptyBumps
	}
	return bumps, nil
}
