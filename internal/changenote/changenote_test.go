package changenote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/markdown"
	"github.com/bsels/sembump/internal/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyA = artifact.Key{Namespace: "g", Name: "a"}
	keyB = artifact.Key{Namespace: "g", Name: "b"}
)

func note(t *testing.T, body string, bumps map[artifact.Key]semver.Severity) *Note {
	t.Helper()
	n, err := New(markdown.ParseString(body), bumps, "")
	require.NoError(t, err)
	return n
}

func TestNew_RequiresBumps(t *testing.T) {
	t.Parallel()

	_, err := New(markdown.NewDocument(), nil, "x.md")
	assert.ErrorIs(t, err, ErrEmptyBumps)

	bumps := map[artifact.Key]semver.Severity{keyA: semver.Minor}
	n, err := New(nil, bumps, "")
	require.NoError(t, err)
	assert.True(t, n.Synthetic())
	assert.Equal(t, markdown.KindDocument, n.Body.Kind)

	bumps[keyB] = semver.Major
	assert.False(t, n.Mentions(keyB), "bumps are copied")
	assert.Equal(t, semver.Minor, n.Severity(keyA))
	assert.Equal(t, semver.None, n.Severity(keyB))
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	first := note(t, "fix\n", map[artifact.Key]semver.Severity{keyA: semver.Patch})
	second := note(t, "break\n", map[artifact.Key]semver.Severity{keyA: semver.Major, keyB: semver.None})
	third := note(t, "feature\n", map[artifact.Key]semver.Severity{keyB: semver.Minor})

	agg := Aggregate([]*Note{first, second, third})

	assert.Equal(t, semver.Major, agg.Severity(keyA))
	assert.Equal(t, semver.Minor, agg.Severity(keyB))
	assert.Equal(t, semver.None, agg.Severity(artifact.Key{Namespace: "g", Name: "zzz"}))
	assert.Equal(t, []*Note{first, second}, agg.NotesFor(keyA))
	assert.Equal(t, []*Note{second, third}, agg.NotesFor(keyB))
	assert.Equal(t, []artifact.Key{keyA, keyB}, agg.Keys())
	assert.Equal(t, semver.Major, agg.Max())
	assert.Equal(t, 2, agg.Len())

	bumps := agg.Bumps()
	assert.Equal(t, map[artifact.Key]semver.Severity{keyA: semver.Major, keyB: semver.Minor}, bumps)
	bumps[keyA] = semver.None
	assert.Equal(t, semver.Major, agg.Severity(keyA), "aggregation is immutable")

	notes := agg.Notes()
	notes[keyA] = nil
	assert.Len(t, agg.NotesFor(keyA), 2)
}

func TestAggregate_KeepsNoneKeys(t *testing.T) {
	t.Parallel()

	n := note(t, "docs\n", map[artifact.Key]semver.Severity{keyA: semver.None})
	agg := Aggregate([]*Note{n})

	assert.Contains(t, agg.Bumps(), keyA)
	assert.Contains(t, agg.Notes(), keyA)
	assert.Equal(t, semver.None, agg.Max())
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	agg := Aggregate(nil)
	assert.Empty(t, agg.Bumps())
	assert.Empty(t, agg.Notes())
	assert.Empty(t, agg.Keys())
	assert.Equal(t, semver.None, agg.Max())
}

func TestAggregation_Grouped(t *testing.T) {
	t.Parallel()

	p1 := note(t, "p1\n", map[artifact.Key]semver.Severity{keyA: semver.Patch})
	m := note(t, "m\n", map[artifact.Key]semver.Severity{keyA: semver.Major})
	p2 := note(t, "p2\n", map[artifact.Key]semver.Severity{keyA: semver.Patch, keyB: semver.Major})

	groups := Aggregate([]*Note{p1, m, p2}).Grouped(keyA)
	assert.Equal(t, []*Note{p1, p2}, groups[semver.Patch])
	assert.Equal(t, []*Note{m}, groups[semver.Major])
	assert.NotContains(t, groups, semver.Minor)

	bodies := Bodies(groups)
	assert.Equal(t, []*markdown.Node{p1.Body, p2.Body}, bodies[semver.Patch])
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		namespace string
		want      map[artifact.Key]semver.Severity
		wantBody  string
		wantErr   error
		errText   string
	}{
		"qualified keys": {
			content:  "---\ng:a: MINOR\n\"g:b\": patch\n---\n\nAdded a thing.\n",
			want:     map[artifact.Key]semver.Severity{keyA: semver.Minor, keyB: semver.Patch},
			wantBody: "Added a thing.\n",
		},
		"bare name with namespace": {
			content:   "---\na: major\n---\nBody\n",
			namespace: "g",
			want:      map[artifact.Key]semver.Severity{keyA: semver.Major},
			wantBody:  "Body\n",
		},
		"crlf and empty body": {
			content: "---\r\ng:a: none\r\n---\r\n",
			want:    map[artifact.Key]semver.Severity{keyA: semver.None},
		},
		"same key twice keeps max": {
			content:   "---\na: patch\ng:a: minor\n---\n",
			namespace: "g",
			want:      map[artifact.Key]semver.Severity{keyA: semver.Minor},
		},
		"no frontmatter": {
			content: "# Just markdown\n",
			wantErr: ErrMissingFrontmatter,
		},
		"unterminated frontmatter": {
			content: "---\ng:a: patch\n",
			wantErr: ErrMissingFrontmatter,
		},
		"empty frontmatter": {
			content: "---\n---\nbody\n",
			wantErr: ErrEmptyBumps,
		},
		"empty mapping": {
			content: "---\n{}\n---\n",
			wantErr: ErrEmptyBumps,
		},
		"bare name without namespace": {
			content: "---\na: patch\n---\n",
			errText: "namespace is required",
		},
		"unknown severity": {
			content: "---\ng:a: huge\n---\n",
			errText: "note.md:2:",
		},
		"not a mapping": {
			content: "---\n- g:a\n---\n",
			errText: "must be a mapping",
		},
		"nested value": {
			content: "---\ng:a:\n  x: y\n---\n",
			errText: "plain values",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			n, err := Parse([]byte(tt.content), "note.md", tt.namespace)
			if tt.wantErr != nil || tt.errText != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, err.Error(), tt.errText)
				assert.Contains(t, err.Error(), "note.md")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Bumps())
			assert.Equal(t, "note.md", n.Origin)
			assert.Equal(t, tt.wantBody, markdown.RenderString(n.Body))
		})
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	t.Parallel()

	n := note(t, "Fixed the parser.\n\n- detail\n", map[artifact.Key]semver.Severity{
		keyB: semver.Patch,
		{Namespace: "com.example", Name: "core"}: semver.Major,
	})

	data, err := Serialize(n)
	require.NoError(t, err)
	assert.Equal(t, "---\ncom.example:core: major\ng:b: patch\n---\n\nFixed the parser.\n\n- detail\n", string(data))

	parsed, err := Parse(data, "x.md", "")
	require.NoError(t, err)
	assert.Equal(t, n.Bumps(), parsed.Bumps())
	assert.Equal(t, markdown.RenderString(n.Body), markdown.RenderString(parsed.Body))
}

func TestWriteNewAndLoadDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".versioning")

	notes, err := LoadDir(context.Background(), dir, "")
	require.NoError(t, err)
	assert.Empty(t, notes, "missing directory has no notes")

	first := note(t, "one\n", map[artifact.Key]semver.Severity{keyA: semver.Patch})
	path, err := WriteNew(dir, first)
	require.NoError(t, err)
	assert.Equal(t, path, first.Origin)
	assert.Regexp(t, `^[0-9a-f-]{36}\.md$`, filepath.Base(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0-first.md"), []byte("---\nb: minor\n---\nbare\n"), 0o644))

	notes, err = LoadDir(context.Background(), dir, "g")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, filepath.Join(dir, "0-first.md"), notes[0].Origin)
	assert.Equal(t, semver.Minor, notes[0].Severity(keyB))
	assert.Equal(t, path, notes[1].Origin)

	assert.Equal(t, []string{filepath.Join(dir, "0-first.md"), path}, Origins(append(notes, notes[0], note(t, "x\n", map[artifact.Key]semver.Severity{keyA: semver.Patch}))))
}

func TestLoadDir_ParseFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), []byte("no frontmatter\n"), 0o644))

	_, err := LoadDir(context.Background(), dir, "")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, filepath.Join(dir, "bad.md"), pe.Origin)
	assert.ErrorIs(t, err, ErrMissingFrontmatter)
}
