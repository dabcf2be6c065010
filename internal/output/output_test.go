// Tests for dry-run output: unified diffs and the plan table.
// Related: internal/output/diff.go, internal/output/table.go
package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/bump"
	"github.com/bsels/sembump/internal/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		before string
		after  string
		want   string
	}{
		"equal": {
			before: "a\n",
			after:  "a\n",
			want:   "",
		},
		"single change": {
			before: "a\nb\nc\n",
			after:  "a\nB\nc\n",
			want:   "--- a/pom.xml\n+++ b/pom.xml\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n",
		},
		"new file": {
			before: "",
			after:  "# Changelog\n",
			want:   "--- /dev/null\n+++ b/pom.xml\n@@ -0,0 +1,1 @@\n+# Changelog\n",
		},
		"distant changes split hunks": {
			before: "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n",
			after:  "X\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\nY\n",
			want: "--- a/pom.xml\n+++ b/pom.xml\n" +
				"@@ -1,4 +1,4 @@\n-1\n+X\n 2\n 3\n 4\n" +
				"@@ -9,4 +9,4 @@\n 9\n 10\n 11\n-12\n+Y\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, UnifiedDiff("pom.xml", tt.before, tt.after, false))
		})
	}
}

func TestWritePlanTable(t *testing.T) {
	t.Parallel()

	plan := &bump.Plan{Units: []bump.UnitPlan{{
		Key:      artifact.Key{Namespace: "com.example", Name: "core"},
		Severity: semver.Minor,
		Old:      semver.MustParse("1.0.0"),
		New:      semver.MustParse("1.1.0"),
	}}}

	var buf bytes.Buffer
	require.NoError(t, WritePlanTable(&buf, plan, false))

	out := buf.String()
	assert.Contains(t, strings.ToLower(out), "artifact")
	assert.Contains(t, out, "com.example:core")
	assert.Contains(t, out, "1.1.0")
}

func TestWriteFileList(t *testing.T) {
	t.Parallel()

	plan := &bump.Plan{
		Files: []bump.FileChange{
			{Path: "pom.xml", Kind: bump.KindDescriptor, Before: []byte("x")},
			{Path: "CHANGELOG.md", Kind: bump.KindChangelog},
		},
		Consumed: []string{".versioning/a.md"},
	}

	var buf bytes.Buffer
	WriteFileList(&buf, plan)
	assert.Equal(t,
		"  update descriptor pom.xml\n  create changelog  CHANGELOG.md\n  delete note       .versioning/a.md\n",
		buf.String())
}
