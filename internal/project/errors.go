package project

import (
	"fmt"
	"strings"
)

// CycleError represents a cycle between units of the reactor.
type CycleError struct {
	// Path is the list of units forming the cycle, first unit repeated last.
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "cycle detected in unit dependencies"
	}
	return fmt.Sprintf("cycle detected in unit dependencies: %s", strings.Join(e.Path, " -> "))
}

// DuplicateUnitError is returned when two descriptors declare the same artifact.
type DuplicateUnitError struct {
	Key        string
	FirstPath  string
	SecondPath string
}

// Error implements the error interface.
func (e *DuplicateUnitError) Error() string {
	return fmt.Sprintf("artifact %s is declared by both %s and %s", e.Key, e.FirstPath, e.SecondPath)
}

// MissingModuleError is returned when a <module> entry points nowhere.
type MissingModuleError struct {
	Module       string
	DeclaredBy   string
	ExpectedPath string
}

// Error implements the error interface.
func (e *MissingModuleError) Error() string {
	return fmt.Sprintf("module %q declared in %s: %s does not exist", e.Module, e.DeclaredBy, e.ExpectedPath)
}
