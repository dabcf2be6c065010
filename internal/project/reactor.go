// Package project models a multi-module build as a graph of units.
//
// A unit is one descriptor (pom.xml) with its artifact key. Units are
// related two ways: aggregation (a unit lists child modules) and
// dependency (a unit's descriptor references another unit's artifact as a
// parent, dependency or plugin). Dependencies determine processing order.
package project

import (
	"fmt"
	"slices"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/descriptor"
)

// Unit is one module of the reactor.
type Unit struct {
	Key            artifact.Key
	Dir            string
	DescriptorPath string
	Doc            *descriptor.Document
	// Modules are the units this unit aggregates, in declaration order.
	Modules []artifact.Key
	// Aggregator is the unit that lists this one as a module; zero for the root.
	Aggregator artifact.Key

	index int
}

// Reactor is the set of units of a build and their dependency order.
type Reactor struct {
	root     artifact.Key
	units    map[artifact.Key]*Unit
	declared []artifact.Key
	deps     map[artifact.Key][]artifact.Key
	sorted   []artifact.Key
}

// New builds a reactor from units in declaration order. Dependencies are
// derived from the artifact references in each unit's descriptor.
func New(root artifact.Key, units []*Unit) (*Reactor, error) {
	r := &Reactor{
		root:  root,
		units: make(map[artifact.Key]*Unit, len(units)),
		deps:  make(map[artifact.Key][]artifact.Key, len(units)),
	}

	for i, u := range units {
		if prev, ok := r.units[u.Key]; ok {
			return nil, &DuplicateUnitError{Key: u.Key.String(), FirstPath: prev.DescriptorPath, SecondPath: u.DescriptorPath}
		}
		u.index = i
		r.units[u.Key] = u
		r.declared = append(r.declared, u.Key)
	}
	if _, ok := r.units[root]; !ok && len(units) > 0 {
		return nil, fmt.Errorf("root unit %s is not part of the reactor", root)
	}

	for _, u := range units {
		r.deps[u.Key] = r.collectDeps(u)
	}

	if err := r.detectCycle(); err != nil {
		return nil, err
	}
	r.sorted = r.topologicalSort()
	return r, nil
}

// edgePaths are the references Maven orders a reactor by. Managed
// dependencies and plugins only pin versions and are not edges.
var edgePaths = []descriptor.Path{
	descriptor.ParentPath,
	{"project", "dependencies", "dependency"},
	{"project", "build", "plugins", "plugin"},
}

func (r *Reactor) collectDeps(u *Unit) []artifact.Key {
	if u.Doc == nil {
		return nil
	}
	var deps []artifact.Key
	for _, ref := range u.Doc.References(edgePaths...) {
		if ref.Key == u.Key {
			continue
		}
		if _, ok := r.units[ref.Key]; ok && !slices.Contains(deps, ref.Key) {
			deps = append(deps, ref.Key)
		}
	}
	r.sortByDeclaration(deps)
	return deps
}

// Sorted returns every unit in dependency order, producers first. Units
// that do not depend on each other keep their declaration order.
func (r *Reactor) Sorted() []artifact.Key {
	return slices.Clone(r.sorted)
}

// Current returns the root unit.
func (r *Reactor) Current() artifact.Key {
	return r.root
}

// Root returns the root unit, or nil for an empty reactor.
func (r *Reactor) Root() *Unit {
	return r.units[r.root]
}

// Children returns the modules aggregated by key.
func (r *Reactor) Children(key artifact.Key) []artifact.Key {
	if u, ok := r.units[key]; ok {
		return slices.Clone(u.Modules)
	}
	return nil
}

// Unit returns the unit for key.
func (r *Reactor) Unit(key artifact.Key) (*Unit, bool) {
	u, ok := r.units[key]
	return u, ok
}

// Units returns every unit in declaration order.
func (r *Reactor) Units() []*Unit {
	out := make([]*Unit, len(r.declared))
	for i, k := range r.declared {
		out[i] = r.units[k]
	}
	return out
}

// Contains reports whether key is a unit of the reactor.
func (r *Reactor) Contains(key artifact.Key) bool {
	_, ok := r.units[key]
	return ok
}

// Dependencies returns the units key depends on, in declaration order.
func (r *Reactor) Dependencies(key artifact.Key) []artifact.Key {
	return slices.Clone(r.deps[key])
}

// Dependents returns the units that depend on key, in dependency order.
func (r *Reactor) Dependents(key artifact.Key) []artifact.Key {
	var out []artifact.Key
	for _, k := range r.sorted {
		if slices.Contains(r.deps[k], key) {
			out = append(out, k)
		}
	}
	return out
}

// detectCycle checks for circular dependencies using DFS.
func (r *Reactor) detectCycle() error {
	const (
		unvisited = iota
		inStack
		done
	)
	state := make(map[artifact.Key]int, len(r.units))
	var stack []artifact.Key

	var visit func(artifact.Key) error
	visit = func(k artifact.Key) error {
		switch state[k] {
		case inStack:
			start := slices.Index(stack, k)
			path := make([]string, 0, len(stack)-start+1)
			for _, s := range stack[start:] {
				path = append(path, s.String())
			}
			return &CycleError{Path: append(path, k.String())}
		case done:
			return nil
		}

		state[k] = inStack
		stack = append(stack, k)
		for _, d := range r.deps[k] {
			if err := visit(d); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[k] = done
		return nil
	}

	for _, k := range r.declared {
		if err := visit(k); err != nil {
			return err
		}
	}
	return nil
}

// topologicalSort returns units in dependency order using Kahn's algorithm.
func (r *Reactor) topologicalSort() []artifact.Key {
	inDegree := make(map[artifact.Key]int, len(r.units))
	dependents := make(map[artifact.Key][]artifact.Key, len(r.units))
	var queue []artifact.Key

	for _, k := range r.declared {
		inDegree[k] = len(r.deps[k])
		for _, d := range r.deps[k] {
			dependents[d] = append(dependents[d], k)
		}
		if inDegree[k] == 0 {
			queue = append(queue, k)
		}
	}

	result := make([]artifact.Key, 0, len(r.units))
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		result = append(result, k)

		var ready []artifact.Key
		for _, dep := range dependents[k] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		r.sortByDeclaration(ready)
		queue = append(queue, ready...)
	}
	return result
}

func (r *Reactor) sortByDeclaration(keys []artifact.Key) {
	slices.SortFunc(keys, func(a, b artifact.Key) int {
		return r.units[a].index - r.units[b].index
	})
}
