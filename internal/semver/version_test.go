package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input      string
		wantString string
		wantSuffix string
	}{
		"plain":                {input: "1.2.3", wantString: "1.2.3"},
		"zero":                 {input: "0.0.0", wantString: "0.0.0"},
		"suffix":               {input: "1.2.3-alpha", wantString: "1.2.3-alpha", wantSuffix: "alpha"},
		"snapshot suffix":      {input: "2.0.0-SNAPSHOT", wantString: "2.0.0-SNAPSHOT", wantSuffix: "SNAPSHOT"},
		"dotted suffix":        {input: "1.0.0-rc.1", wantString: "1.0.0-rc.1", wantSuffix: "rc.1"},
		"dashed suffix":        {input: "1.0.0-beta-2", wantString: "1.0.0-beta-2", wantSuffix: "beta-2"},
		"surrounding space":    {input: "  4.5.6 \n", wantString: "4.5.6"},
		"leading zeros":        {input: "01.002.3", wantString: "1.2.3"},
		"large numbers":        {input: "100.200.300", wantString: "100.200.300"},
		"numeric first suffix": {input: "1.0.0-1a", wantString: "1.0.0-1a", wantSuffix: "1a"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantString, v.String())
			assert.Equal(t, tt.wantSuffix, v.Suffix())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"two components":     "1.2",
		"four components":    "1.2.3.4",
		"negative":           "-1.2.3",
		"dangling dash":      "1.2.3-",
		"empty":              "",
		"blank":              "   ",
		"letters":            "a.b.c",
		"empty component":    "1..3",
		"suffix starts dash": "1.2.3--x",
		"suffix starts dot":  "1.2.3-.x",
		"suffix bad char":    "1.2.3-al_pha",
		"v prefix":           "v1.2.3",
		"overflow":           "99999999999999999999.0.0",
		"property reference": "${revision}",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"0.0.1", "1.2.3-alpha", "10.20.30-rc.1-x"} {
		v := MustParse(text)
		again, err := Parse(v.String())
		require.NoError(t, err)
		assert.True(t, v.Equal(again), "round trip of %s", text)
	}
}

func TestVersion_Bump(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		severity Severity
		want     string
	}{
		"major keeps suffix": {input: "1.2.3-alpha", severity: Major, want: "2.0.0-alpha"},
		"minor resets patch": {input: "1.2.3", severity: Minor, want: "1.3.0"},
		"patch":              {input: "1.2.3", severity: Patch, want: "1.2.4"},
		"none":               {input: "1.2.3", severity: None, want: "1.2.3"},
		"major from zero":    {input: "0.9.9", severity: Major, want: "1.0.0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := MustParse(tt.input).Bump(tt.severity)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestVersion_BumpInvariants(t *testing.T) {
	t.Parallel()

	v := MustParse("3.7.11-SNAPSHOT")

	major := v.Bump(Major)
	assert.Zero(t, major.Minor())
	assert.Zero(t, major.Patch())

	minor := v.Bump(Minor)
	assert.Zero(t, minor.Patch())

	assert.Same(t, v, v.Bump(None))
	assert.NotSame(t, v, v.Bump(Patch))
	assert.Equal(t, "3.7.11-SNAPSHOT", v.String(), "receiver must not change")
}

func TestVersion_Suffix(t *testing.T) {
	t.Parallel()

	plain := MustParse("1.0.0")
	assert.Same(t, plain, plain.StripSuffix())

	snap := MustParse("1.0.0-SNAPSHOT")
	stripped := snap.StripSuffix()
	assert.NotSame(t, snap, stripped)
	assert.Equal(t, "1.0.0", stripped.String())

	same, err := snap.WithSuffix("SNAPSHOT")
	require.NoError(t, err)
	assert.Same(t, snap, same)

	rc, err := plain.WithSuffix("rc.1")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-rc.1", rc.String())

	for _, bad := range []string{"", "-x", ".x", "a b", "ü"} {
		_, err := plain.WithSuffix(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, "suffix %q", bad)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	v, err := New(1, 2, 3, "  ")
	require.NoError(t, err)
	assert.False(t, v.HasSuffix())
	assert.Equal(t, "1.2.3", v.String())

	_, err = New(1, 2, 3, "-bad")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a, b string
		want int
	}{
		"equal":              {a: "1.2.3", b: "1.2.3", want: 0},
		"major":              {a: "2.0.0", b: "1.9.9", want: 1},
		"minor":              {a: "1.2.0", b: "1.10.0", want: -1},
		"suffix is lower":    {a: "1.0.0-SNAPSHOT", b: "1.0.0", want: -1},
		"non strict suffix":  {a: "1.0.0-01", b: "1.0.0", want: -1},
		"suffix vs suffix":   {a: "1.0.0-alpha", b: "1.0.0-beta", want: -1},
		"bumped is greater":  {a: "1.0.1-SNAPSHOT", b: "1.0.0-SNAPSHOT", want: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MustParse(tt.a).Compare(MustParse(tt.b)))
		})
	}
}
