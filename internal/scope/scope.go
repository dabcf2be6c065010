// Package scope decides which units an update applies to and where each
// unit keeps its version.
package scope

import (
	"fmt"
	"strings"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/descriptor"
)

// Mode selects how versions are addressed in a project.
type Mode int

const (
	// PerUnitVersion bumps <project><version> of every unit.
	PerUnitVersion Mode = iota
	// SharedRevisionProperty bumps the <revision> property of the current unit only.
	SharedRevisionProperty
	// PerUnitVersionLeavesOnly is PerUnitVersion restricted to units without child modules.
	PerUnitVersionLeavesOnly
)

var modeNames = map[Mode]string{
	PerUnitVersion:           "project_version",
	SharedRevisionProperty:   "revision_property",
	PerUnitVersionLeavesOnly: "project_version_only_leaves",
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	return []Mode{PerUnitVersion, SharedRevisionProperty, PerUnitVersionLeavesOnly}
}

// ModeNames returns the configuration names of every mode.
func ModeNames() []string {
	names := make([]string, 0, len(modeNames))
	for _, m := range Modes() {
		names = append(names, m.String())
	}
	return names
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a configuration name into a Mode.
func ParseMode(name string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, m := range Modes() {
		if m.String() == normalized {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (valid: %s)", name, strings.Join(ModeNames(), ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// VersionPath returns the descriptor path holding a unit's version in mode m.
func (m Mode) VersionPath() descriptor.Path {
	if m == SharedRevisionProperty {
		return descriptor.RevisionPropertyPath
	}
	return descriptor.ProjectVersionPath
}

// Graph is the view of the project the resolver needs.
type Graph interface {
	// Sorted returns every unit in topological order, producers first.
	Sorted() []artifact.Key
	// Current returns the unit the tool was invoked on.
	Current() artifact.Key
	// Children returns the modules aggregated by a unit.
	Children(artifact.Key) []artifact.Key
}

// Scope is the ordered set of units an update applies to.
type Scope struct {
	Mode        Mode
	Units       []artifact.Key
	VersionPath descriptor.Path
}

// Empty reports whether no unit is in scope.
func (s Scope) Empty() bool {
	return len(s.Units) == 0
}

// Contains reports whether key is in scope.
func (s Scope) Contains(key artifact.Key) bool {
	for _, u := range s.Units {
		if u == key {
			return true
		}
	}
	return false
}

// Resolve computes the scope for mode over g. Multi-unit scopes keep the
// topological order of g.Sorted.
func Resolve(mode Mode, g Graph) Scope {
	s := Scope{Mode: mode, VersionPath: mode.VersionPath()}

	switch mode {
	case SharedRevisionProperty:
		if cur := g.Current(); !cur.IsZero() {
			s.Units = []artifact.Key{cur}
		}
	case PerUnitVersionLeavesOnly:
		for _, key := range g.Sorted() {
			if len(g.Children(key)) == 0 {
				s.Units = append(s.Units, key)
			}
		}
	default:
		s.Units = append(s.Units, g.Sorted()...)
	}
	return s
}
