package config

import (
	"fmt"
	"reflect"
	"strconv"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key name as used in config files
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
}

// KnownKeys lists every configuration key in display order.
var KnownKeys = []ConfigKeySchema{
	{Path: "mode", Type: TypeEnum, AllowedValues: []string{"project_version", "revision_property", "project_version_only_leaves"},
		Description: "Version field to bump"},
	{Path: "bump", Type: TypeEnum, AllowedValues: []string{"file_based", "major", "minor", "patch"},
		Description: "Severity source: change notes or a forced severity"},
	{Path: "versioning_dir", Type: TypeString, Description: "Directory holding pending change notes"},
	{Path: "changelog_file", Type: TypeString, Description: "Changelog file name inside each module"},
	{Path: "header_format", Type: TypeString, Description: "Changelog section heading format"},
	{Path: "dependency_message", Type: TypeString, Description: "Changelog entry for dependency updates"},
	{Path: "commit_message", Type: TypeString, Description: "Commit message template"},
	{Path: "git", Type: TypeEnum, AllowedValues: []string{"none", "stage", "commit"}, Description: "Git integration"},
	{Path: "dry_run", Type: TypeBool, Description: "Print changes without writing"},
	{Path: "backup", Type: TypeBool, Description: "Back up descriptors before rewriting them"},
	{Path: "namespace_implicit", Type: TypeBool, Description: "Allow change notes without group ids"},
	{Path: "log_level", Type: TypeEnum, AllowedValues: []string{"debug", "info", "warn", "error"}, Description: "Log verbosity"},
}

// Value returns the value of key in cfg formatted for display.
func (c *Configuration) Value(key string) (string, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := range t.NumField() {
		if t.Field(i).Tag.Get("koanf") != key {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.Bool:
			return strconv.FormatBool(f.Bool()), nil
		case reflect.String:
			return f.String(), nil
		}
	}
	return "", fmt.Errorf("unknown config key %q", key)
}
