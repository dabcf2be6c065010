package changenote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/bsels/sembump/internal/markdown"
)

// maxParallelReads bounds concurrent note parsing in LoadDir.
const maxParallelReads = 8

// LoadDir parses every *.md file in dir. Notes are returned ordered by file
// name. A missing directory yields no notes.
func LoadDir(ctx context.Context, dir, defaultNamespace string) ([]*Note, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading change note directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)

	notes := make([]*Note, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading change note: %w", err)
			}
			note, err := Parse(content, path, defaultNamespace)
			if err != nil {
				return err
			}
			notes[i] = note
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return notes, nil
}

// Serialize renders a note in its file form: frontmatter then body.
func Serialize(n *Note) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range n.Keys() {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Value: n.bumps[key].String()},
		)
	}
	front, err := yaml.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(front)
	buf.WriteString(delimiter + "\n")
	if n.Body.ChildCount() > 0 {
		buf.WriteString("\n")
		buf.Write(markdown.Render(n.Body))
	}
	return buf.Bytes(), nil
}

// WriteNew stores n in dir under a fresh UUIDv7 file name and returns the
// path. The directory is created when missing. n.Origin is set to the path.
func WriteNew(dir string, n *Note) (string, error) {
	data, err := Serialize(n)
	if err != nil {
		return "", err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating note id: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating change note directory: %w", err)
	}

	path := filepath.Join(dir, id.String()+".md")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing change note: %w", err)
	}
	n.Origin = path
	return path, nil
}

// Origins returns the distinct file paths of the loaded notes, sorted.
func Origins(notes []*Note) []string {
	var paths []string
	for _, n := range notes {
		if !n.Synthetic() {
			paths = append(paths, n.Origin)
		}
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}
