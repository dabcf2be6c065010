// Package artifact identifies build units by namespace and name.
package artifact

import (
	"fmt"
	"strings"

	"github.com/bsels/sembump/internal/semver"
)

// Key identifies an artifact. It is comparable and used as a map key.
type Key struct {
	Namespace string
	Name      string
}

// NewKey validates both parts and returns a Key.
func NewKey(namespace, name string) (Key, error) {
	if strings.TrimSpace(namespace) == "" {
		return Key{}, fmt.Errorf("artifact key %q: namespace is required", namespace+":"+name)
	}
	if strings.TrimSpace(name) == "" {
		return Key{}, fmt.Errorf("artifact key %q: name is required", namespace+":"+name)
	}
	return Key{Namespace: namespace, Name: name}, nil
}

// ParseKey parses the canonical "namespace:name" form.
func ParseKey(text string) (Key, error) {
	namespace, name, ok := strings.Cut(strings.TrimSpace(text), ":")
	if !ok {
		return Key{}, fmt.Errorf("artifact key %q: expected namespace:name", text)
	}
	if strings.Contains(name, ":") {
		return Key{}, fmt.Errorf("artifact key %q: too many ':' separators", text)
	}
	return NewKey(namespace, name)
}

// ParseKeyDefault parses "namespace:name", or a bare "name" resolved against
// defaultNamespace. A bare name with an empty defaultNamespace is an error.
func ParseKeyDefault(text, defaultNamespace string) (Key, error) {
	trimmed := strings.TrimSpace(text)
	if strings.Contains(trimmed, ":") {
		return ParseKey(trimmed)
	}
	if defaultNamespace == "" {
		return Key{}, fmt.Errorf("artifact key %q: namespace is required", text)
	}
	return NewKey(defaultNamespace, trimmed)
}

// String returns "namespace:name".
func (k Key) String() string {
	return k.Namespace + ":" + k.Name
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Compare orders keys by their canonical string.
func Compare(a, b Key) int {
	return strings.Compare(a.String(), b.String())
}

// Ref is an artifact reference triple found inside a descriptor.
type Ref struct {
	Key     Key
	Version *semver.Version
}

// String returns "namespace:name:version".
func (r Ref) String() string {
	if r.Version == nil {
		return r.Key.String()
	}
	return r.Key.String() + ":" + r.Version.String()
}
