package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/bsels/sembump/internal/fsutil"
	"github.com/knadh/koanf/parsers/json"
	"gopkg.in/yaml.v3"
)

// MigrationResult describes what a migration did or would do.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Migrated   bool
	DryRun     bool
	Message    string
}

const migratedHeader = "# sembump configuration\n# Migrated from JSON format\n\n"

// MigrateJSONToYAML converts a legacy JSON config to YAML with keys in
// display order. An existing YAML file is never overwritten. On success the
// JSON file is renamed to <path>.bak.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{SourcePath: jsonPath, TargetPath: yamlPath, DryRun: dryRun}

	data, err := os.ReadFile(jsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		result.Message = "No JSON config found at " + jsonPath
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading legacy config: %w", err)
	}
	values, err := json.Parser().Unmarshal(data)
	if err != nil {
		return nil, &ValidationError{FilePath: jsonPath, Message: err.Error()}
	}

	doc, err := orderedMapping(values, jsonPath)
	if err != nil {
		return nil, err
	}

	switch {
	case fsutil.Exists(yamlPath):
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	case dryRun:
		result.Message = fmt.Sprintf("Would migrate %s -> %s", jsonPath, yamlPath)
		return result, nil
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding YAML config: %w", err)
	}
	if err := fsutil.WriteAtomic(yamlPath, append([]byte(migratedHeader), out...)); err != nil {
		return nil, err
	}
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return nil, fmt.Errorf("backing up legacy config: %w", err)
	}

	result.Migrated = true
	result.Message = fmt.Sprintf("Migrated %s -> %s", jsonPath, yamlPath)
	return result, nil
}

// orderedMapping builds a YAML mapping of values in KnownKeys order.
func orderedMapping(values map[string]any, path string) (*yaml.Node, error) {
	known := Keys()
	for k := range values {
		if !slices.Contains(known, k) {
			return nil, &ValidationError{FilePath: path, Field: k, Message: "is not a config key"}
		}
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range known {
		v, ok := values[k]
		if !ok {
			continue
		}
		var value yaml.Node
		if err := value.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", k, err)
		}
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &value)
	}
	return mapping, nil
}

// MigrateProjectConfig migrates dir/.sembump.json to dir/.sembump.yml.
func MigrateProjectConfig(dir string, dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(dir), ProjectConfigPath(dir), dryRun)
}
