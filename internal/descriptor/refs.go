package descriptor

import (
	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/semver"
)

// Reference is an artifact reference found in a descriptor together with
// the element that holds its version.
type Reference struct {
	artifact.Ref
	Element     *Node
	VersionNode *Node
}

// ReferencePaths lists the places a Maven descriptor refers to other artifacts.
var ReferencePaths = []Path{
	ParentPath,
	{"project", "dependencies", "dependency"},
	{"project", "dependencyManagement", "dependencies", "dependency"},
	{"project", "build", "plugins", "plugin"},
	{"project", "build", "pluginManagement", "plugins", "plugin"},
}

// ExtractRef reads the groupId, artifactId and version children of n. It
// reports false when any of them is missing or the version is not a plain
// semantic version, e.g. a ${property} placeholder.
func ExtractRef(n *Node) (artifact.Ref, bool) {
	ref, _, ok := extract(n)
	return ref, ok
}

func extract(n *Node) (artifact.Ref, *Node, bool) {
	group, name, ver := n.Child("groupId"), n.Child("artifactId"), n.Child("version")
	if group == nil || name == nil || ver == nil {
		return artifact.Ref{}, nil, false
	}
	key, err := artifact.NewKey(group.Text(), name.Text())
	if err != nil {
		return artifact.Ref{}, nil, false
	}
	v, err := semver.Parse(ver.Text())
	if err != nil {
		return artifact.Ref{}, nil, false
	}
	return artifact.Ref{Key: key, Version: v}, ver, true
}

// References returns every recognizable artifact reference under paths, in
// path order. With no paths, ReferencePaths is used.
func (d *Document) References(paths ...Path) []Reference {
	if len(paths) == 0 {
		paths = ReferencePaths
	}
	var out []Reference
	for _, p := range paths {
		for n := range d.LocateAll(p) {
			ref, ver, ok := extract(n)
			if !ok {
				continue
			}
			out = append(out, Reference{Ref: ref, Element: n, VersionNode: ver})
		}
	}
	return out
}
