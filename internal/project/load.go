package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/descriptor"
)

// DescriptorName is the file name of a unit descriptor inside its directory.
const DescriptorName = "pom.xml"

// Load reads the descriptor at path (a directory or a pom.xml file) and
// every module it aggregates, recursively.
func Load(path string) (*Reactor, error) {
	rootPath, err := DescriptorPath(path)
	if err != nil {
		return nil, err
	}

	l := &loader{seen: make(map[string]bool)}
	root, err := l.load(rootPath, artifact.Key{})
	if err != nil {
		return nil, err
	}
	return New(root.Key, l.units)
}

// DescriptorPath resolves a directory to the descriptor inside it.
func DescriptorPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("locating project descriptor: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, DescriptorName)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("locating project descriptor: %w", err)
		}
	}
	return filepath.Abs(path)
}

// UnitKey reads the artifact key declared by a descriptor. The groupId is
// inherited from <parent> when the project does not declare one.
func UnitKey(doc *descriptor.Document) (artifact.Key, error) {
	name := doc.Text(descriptor.ArtifactIDPath)
	group := doc.Text(descriptor.GroupIDPath)
	if group == "" {
		group = doc.Text(descriptor.Path{"project", "parent", "groupId"})
	}
	key, err := artifact.NewKey(group, name)
	if err != nil {
		return artifact.Key{}, fmt.Errorf("descriptor has no usable groupId/artifactId: %w", err)
	}
	return key, nil
}

type loader struct {
	seen  map[string]bool
	units []*Unit
}

func (l *loader) load(path string, aggregator artifact.Key) (*Unit, error) {
	l.seen[path] = true

	doc, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	key, err := UnitKey(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	unit := &Unit{
		Key:            key,
		Dir:            filepath.Dir(path),
		DescriptorPath: path,
		Doc:            doc,
		Aggregator:     aggregator,
	}
	l.units = append(l.units, unit)

	for m := range doc.LocateAll(descriptor.ModulePath) {
		name := m.Text()
		if name == "" {
			continue
		}
		modulePath := filepath.Join(unit.Dir, filepath.FromSlash(name))
		if !strings.HasSuffix(strings.ToLower(modulePath), ".xml") {
			modulePath = filepath.Join(modulePath, DescriptorName)
		}
		if _, err := os.Stat(modulePath); errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingModuleError{Module: name, DeclaredBy: path, ExpectedPath: modulePath}
		}
		if l.seen[modulePath] {
			continue
		}

		child, err := l.load(modulePath, key)
		if err != nil {
			return nil, err
		}
		unit.Modules = append(unit.Modules, child.Key)
	}
	return unit, nil
}
