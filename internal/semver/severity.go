package semver

import (
	"fmt"
	"strings"
)

// Severity is the impact category of a change. Values are ordered:
// None < Patch < Minor < Major.
type Severity int

const (
	None Severity = iota
	Patch
	Minor
	Major
)

// Descending returns every severity from Major down to None. This is the
// order in which changelog sections are written.
func Descending() []Severity {
	return []Severity{Major, Minor, Patch, None}
}

// ParseSeverity parses a case-insensitive severity token.
func ParseSeverity(token string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "none":
		return None, nil
	case "patch":
		return Patch, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	default:
		return None, fmt.Errorf("unknown bump severity %q (expected major, minor, patch or none)", token)
	}
}

// Max returns the higher of two severities.
func Max(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// MaxOf reduces severities to their maximum, seeded at None.
func MaxOf(severities ...Severity) Severity {
	result := None
	for _, s := range severities {
		result = Max(result, s)
	}
	return result
}

// String returns the lower-case token form used in change notes.
func (s Severity) String() string {
	switch s {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return "none"
	}
}

// Label returns the human heading used for the severity's changelog group.
func (s Severity) Label() string {
	switch s {
	case Major:
		return "Major"
	case Minor:
		return "Minor"
	case Patch:
		return "Patch"
	default:
		return "Other"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
