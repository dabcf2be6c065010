package changelog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsels/sembump/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# Changelog

## 1.1.0 - 2025-02-01

### Minor

- New feature

## 1.0.0 - 2025-01-01

Initial release.
`

func TestSections(t *testing.T) {
	t.Parallel()

	sections := Sections(markdown.ParseString(sample))
	require.Len(t, sections, 2)

	assert.Equal(t, "1.1.0", sections[0].Version)
	assert.Equal(t, "1.1.0 - 2025-02-01", sections[0].Heading)
	assert.Len(t, sections[0].Blocks, 2)
	assert.Equal(t, "## 1.1.0 - 2025-02-01\n\n### Minor\n\n- New feature\n", sections[0].Markdown())

	assert.Equal(t, "1.0.0", sections[1].Version)
	assert.Len(t, sections[1].Blocks, 1)

	assert.Empty(t, Sections(New()))
}

func TestFindSection(t *testing.T) {
	t.Parallel()

	doc := markdown.ParseString(sample)

	tests := map[string]struct {
		version string
		want    string
		wantErr bool
	}{
		"exact match":        {version: "1.0.0", want: "1.0.0"},
		"with v prefix":      {version: "v1.1.0", want: "1.1.0"},
		"uppercase v prefix": {version: "V1.0.0", want: "1.0.0"},
		"missing":            {version: "9.9.9", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := FindSection(doc, tt.version)
			if tt.wantErr {
				var notFound *VersionNotFoundError
				require.True(t, errors.As(err, &notFound))
				assert.Equal(t, []string{"1.1.0", "1.0.0"}, notFound.AvailableVersions)
				assert.Contains(t, err.Error(), "1.1.0, 1.0.0")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Version)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	doc, err := Load(filepath.Join(dir, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Changelog\n", markdown.RenderString(doc))

	path := filepath.Join(dir, "existing.md")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	doc, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample, markdown.RenderString(doc))
}

func TestFormatTerminal_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sections := Sections(markdown.ParseString(sample))
	require.NoError(t, FormatTerminal(sections[1:], &buf, FormatOptions{Plain: true}))
	assert.Equal(t, "## 1.0.0 - 2025-01-01\n\nInitial release.\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatTerminal(nil, &buf, FormatOptions{}))
	assert.Empty(t, buf.String())
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.0.0", NormalizeVersion(" v1.0.0 "))
	assert.Equal(t, "version", NormalizeVersion("version"))
	assert.Equal(t, "v", NormalizeVersion("v"))
}
