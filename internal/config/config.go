// Package config provides layered configuration for sembump using koanf.
// Configuration is loaded with priority: environment variables > project config (.sembump.yml)
// > user config (~/.config/sembump/config.yml) > defaults. Command-line flags are applied on top
// by the cli package. A legacy .sembump.json project file is still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsels/sembump/internal/git"
	"github.com/bsels/sembump/internal/scope"
	"github.com/bsels/sembump/internal/semver"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override configuration keys.
const EnvPrefix = "SEMBUMP_"

// BumpFileBased derives severities from change notes instead of forcing one.
const BumpFileBased = "file_based"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
	SourceFlag    ConfigSource = "flag"
)

// Configuration represents the sembump configuration
type Configuration struct {
	// Mode selects which version field is bumped: project_version,
	// revision_property or project_version_only_leaves.
	Mode string `koanf:"mode" validate:"oneof=project_version revision_property project_version_only_leaves"`
	// Bump is file_based, or a severity forced on every unit in scope.
	Bump string `koanf:"bump" validate:"oneof=file_based major minor patch"`

	VersioningDir     string `koanf:"versioning_dir" validate:"required"`
	ChangelogFile     string `koanf:"changelog_file" validate:"required"`
	HeaderFormat      string `koanf:"header_format" validate:"required,placeholder=version"`
	DependencyMessage string `koanf:"dependency_message" validate:"required"`
	CommitMessage     string `koanf:"commit_message"`

	Git    string `koanf:"git" validate:"oneof=none stage commit"`
	DryRun bool   `koanf:"dry_run"`
	Backup bool   `koanf:"backup"`

	// NamespaceImplicit lets change notes name artifacts without a group id;
	// the root unit's group id is used instead.
	NamespaceImplicit bool `koanf:"namespace_implicit"`

	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Sources records which layer supplied each key. Not loaded from files.
	Sources map[string]ConfigSource `koanf:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir is the directory searched for .sembump.yml (default: current directory).
	ProjectDir string
	// ConfigPath overrides the project config file; it must exist.
	ConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
	// SkipUserConfig ignores the user-level config file.
	SkipUserConfig bool
}

// Load loads configuration for the project in projectDir.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	sources := make(map[string]ConfigSource)
	warningWriter := getWarningWriter(opts.WarningWriter)

	defaults := koanf.New(".")
	for key, value := range GetDefaults() {
		if err := defaults.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}
	merge(k, defaults, SourceDefault, sources)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k, sources); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts, warningWriter, sources); err != nil {
		return nil, err
	}

	envLayer := koanf.New(".")
	if err := envLayer.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	merge(k, envLayer, SourceEnv, sources)

	return finalizeConfig(k, sources)
}

// merge copies layer into k and records the source of every key it sets.
func merge(k, layer *koanf.Koanf, source ConfigSource, sources map[string]ConfigSource) {
	for _, key := range layer.Keys() {
		sources[key] = source
	}
	// Merge only fails on type conflicts with strict merge, which is off.
	_ = k.Merge(layer)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func loadUserConfig(k *koanf.Koanf, sources map[string]ConfigSource) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	layer, err := loadYAMLConfig(path, "user")
	if err != nil {
		return err
	}
	merge(k, layer, SourceUser, sources)
	return nil
}

// loadProjectConfig loads .sembump.yml, or the legacy .sembump.json with a warning.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer, sources map[string]ConfigSource) error {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return fmt.Errorf("config file %s does not exist", opts.ConfigPath)
		}
		layer, err := loadByExtension(opts.ConfigPath)
		if err != nil {
			return err
		}
		merge(k, layer, SourceProject, sources)
		return nil
	}

	yamlPath := ProjectConfigPath(opts.ProjectDir)
	legacyPath := LegacyProjectConfigPath(opts.ProjectDir)
	yamlExists, legacyExists := fileExists(yamlPath), fileExists(legacyPath)

	switch {
	case yamlExists:
		layer, err := loadYAMLConfig(yamlPath, "project")
		if err != nil {
			return err
		}
		merge(k, layer, SourceProject, sources)
		if legacyExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
			fmt.Fprintf(warningWriter, "  Run 'sembump config migrate' to remove the legacy file.\n\n")
		}
	case legacyExists:
		layer, err := loadJSONConfig(legacyPath)
		if err != nil {
			return err
		}
		merge(k, layer, SourceProject, sources)
		if !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Run 'sembump config migrate' to migrate to YAML format.\n\n")
		}
	}
	return nil
}

func loadByExtension(path string) (*koanf.Koanf, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSONConfig(path)
	}
	return loadYAMLConfig(path, "project")
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(path, configType string) (*koanf.Koanf, error) {
	if err := ValidateYAMLSyntax(path); err != nil {
		return nil, fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	layer := koanf.New(".")
	if err := layer.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return layer, nil
}

func loadJSONConfig(path string) (*koanf.Koanf, error) {
	layer := koanf.New(".")
	if err := layer.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load legacy config %s: %w", path, err)
	}
	return layer, nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf, sources map[string]ConfigSource) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Sources = sources
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: SEMBUMP_DRY_RUN -> dry_run
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// ScopeMode returns the parsed version field mode.
func (c *Configuration) ScopeMode() (scope.Mode, error) {
	return scope.ParseMode(c.Mode)
}

// ForcedSeverity returns the severity forced by Bump, or None for file_based.
func (c *Configuration) ForcedSeverity() (semver.Severity, error) {
	if c.Bump == "" || c.Bump == BumpFileBased {
		return semver.None, nil
	}
	return semver.ParseSeverity(c.Bump)
}

// GitMode returns the parsed git integration mode.
func (c *Configuration) GitMode() (git.Mode, error) {
	return git.ParseMode(c.Git)
}

// Source returns where key was set, or SourceDefault when unknown.
func (c *Configuration) Source(key string) ConfigSource {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// SetFlag records a command-line override for key.
func (c *Configuration) SetFlag(key string) {
	if c.Sources == nil {
		c.Sources = make(map[string]ConfigSource)
	}
	c.Sources[key] = SourceFlag
}

// Keys returns the configuration keys in display order.
func Keys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for _, k := range KnownKeys {
		keys = append(keys, k.Path)
	}
	return keys
}
