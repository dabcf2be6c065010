package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bsels/sembump/internal/markdown"
)

// Load reads and parses the changelog at path. A missing file is not an
// error: a document holding only the title heading is returned instead.
func Load(path string) (*markdown.Node, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}
	return markdown.Parse(data), nil
}
