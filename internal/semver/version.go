// Package semver implements the version value and bump severity used to
// compute release increments.
//
// A Version is immutable. Operations that would leave the value unchanged
// (bumping by None, stripping an absent suffix, setting the current suffix)
// return the receiver itself, so callers can detect a no-op by pointer
// comparison.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// ErrInvalidFormat is returned when version or suffix text is malformed.
var ErrInvalidFormat = errors.New("invalid version format")

var (
	versionRE = regexp.MustCompile(`^([0-9]+)\.([0-9]+)\.([0-9]+)(?:-(.*))?$`)
	suffixRE  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.-]*$`)
)

// Version is a three-part semantic version with an optional free-form suffix.
type Version struct {
	major  uint64
	minor  uint64
	patch  uint64
	suffix string
}

// New builds a Version from validated parts. A blank suffix means no suffix.
func New(major, minor, patch uint64, suffix string) (*Version, error) {
	suffix = strings.TrimSpace(suffix)
	if suffix != "" && !suffixRE.MatchString(suffix) {
		return nil, fmt.Errorf("%w: suffix %q", ErrInvalidFormat, suffix)
	}
	return &Version{major: major, minor: minor, patch: patch, suffix: suffix}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(text string) *Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Parse parses canonical version text: "X.Y.Z" or "X.Y.Z-suffix".
// Surrounding whitespace is ignored.
func Parse(text string) (*Version, error) {
	trimmed := strings.TrimSpace(text)
	m := versionRE.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, fmt.Errorf("%w: %q (expected X.Y.Z or X.Y.Z-suffix)", ErrInvalidFormat, text)
	}

	var parts [3]uint64
	for i := range parts {
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: component %q of %q", ErrInvalidFormat, m[i+1], text)
		}
		parts[i] = n
	}

	// "1.2.3-" has a dash but no suffix, which the optional group still matches.
	if strings.Contains(trimmed, "-") && !suffixRE.MatchString(m[4]) {
		return nil, fmt.Errorf("%w: suffix %q of %q", ErrInvalidFormat, m[4], text)
	}

	return &Version{major: parts[0], minor: parts[1], patch: parts[2], suffix: m[4]}, nil
}

// Major returns the major component.
func (v *Version) Major() uint64 { return v.major }

// Minor returns the minor component.
func (v *Version) Minor() uint64 { return v.minor }

// Patch returns the patch component.
func (v *Version) Patch() uint64 { return v.patch }

// Suffix returns the suffix without its leading dash, or "" when absent.
func (v *Version) Suffix() string { return v.suffix }

// HasSuffix reports whether the version carries a suffix.
func (v *Version) HasSuffix() bool { return v.suffix != "" }

// Bump returns the version incremented by severity. The suffix is kept.
// Bumping by None returns v itself.
func (v *Version) Bump(s Severity) *Version {
	switch s {
	case Major:
		return &Version{major: v.major + 1, suffix: v.suffix}
	case Minor:
		return &Version{major: v.major, minor: v.minor + 1, suffix: v.suffix}
	case Patch:
		return &Version{major: v.major, minor: v.minor, patch: v.patch + 1, suffix: v.suffix}
	default:
		return v
	}
}

// StripSuffix returns the version without a suffix, or v itself if it has none.
func (v *Version) StripSuffix() *Version {
	if v.suffix == "" {
		return v
	}
	return &Version{major: v.major, minor: v.minor, patch: v.patch}
}

// WithSuffix returns the version with the given suffix. Setting the current
// suffix returns v itself.
func (v *Version) WithSuffix(suffix string) (*Version, error) {
	trimmed := strings.TrimSpace(suffix)
	if trimmed == "" || !suffixRE.MatchString(trimmed) {
		return nil, fmt.Errorf("%w: suffix %q", ErrInvalidFormat, suffix)
	}
	if trimmed == v.suffix {
		return v, nil
	}
	return &Version{major: v.major, minor: v.minor, patch: v.patch, suffix: trimmed}, nil
}

// Equal reports whether both versions have the same components and suffix.
func (v *Version) Equal(other *Version) bool {
	if v == nil || other == nil {
		return v == other
	}
	return *v == *other
}

// Compare orders versions by semantic-version precedence: -1, 0 or 1.
// A suffixed version sorts before the same version without suffix.
func (v *Version) Compare(other *Version) int {
	a, errA := mmsemver.StrictNewVersion(v.String())
	b, errB := mmsemver.StrictNewVersion(other.String())
	if errA != nil || errB != nil {
		// Suffixes such as "01" are valid here but rejected by strict semver
		// prerelease rules; fall back to plain component ordering.
		return compareComponents(v, other)
	}
	return a.Compare(b)
}

func compareComponents(a, b *Version) int {
	for _, pair := range [][2]uint64{{a.major, b.major}, {a.minor, b.minor}, {a.patch, b.patch}} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	switch {
	case a.suffix == b.suffix:
		return 0
	case a.suffix == "":
		return 1
	case b.suffix == "":
		return -1
	case a.suffix < b.suffix:
		return -1
	default:
		return 1
	}
}

// String returns the canonical text form.
func (v *Version) String() string {
	if v.suffix == "" {
		return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	}
	return fmt.Sprintf("%d.%d.%d-%s", v.major, v.minor, v.patch, v.suffix)
}

// MarshalText implements encoding.TextMarshaler.
func (v *Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
