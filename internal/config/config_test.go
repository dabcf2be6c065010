// Tests for layered configuration loading and validation.
// Related: internal/config/config.go, internal/config/validate.go
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsels/sembump/internal/git"
	"github.com/bsels/sembump/internal/scope"
	"github.com/bsels/sembump/internal/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: t.TempDir(), SkipUserConfig: true})
	require.NoError(t, err)

	assert.Equal(t, "project_version", cfg.Mode)
	assert.Equal(t, BumpFileBased, cfg.Bump)
	assert.Equal(t, ".versioning", cfg.VersioningDir)
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogFile)
	assert.Equal(t, "{version} - {date}", cfg.HeaderFormat)
	assert.Equal(t, "none", cfg.Git)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, SourceDefault, cfg.Source("mode"))
}

func TestLoad_Layers(t *testing.T) {
	tests := map[string]struct {
		project    map[string]string
		user       string
		env        map[string]string
		check      func(t *testing.T, cfg *Configuration)
		wantWarn   string
		wantNoWarn bool
	}{
		"project yaml": {
			project: map[string]string{ProjectConfigFile: "mode: revision_property\ngit: commit\n"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "revision_property", cfg.Mode)
				assert.Equal(t, "commit", cfg.Git)
				assert.Equal(t, SourceProject, cfg.Source("git"))
				assert.Equal(t, SourceDefault, cfg.Source("bump"))
			},
			wantNoWarn: true,
		},
		"env beats project": {
			project: map[string]string{ProjectConfigFile: "git: commit\n"},
			env:     map[string]string{"SEMBUMP_GIT": "stage", "SEMBUMP_DRY_RUN": "true"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "stage", cfg.Git)
				assert.True(t, cfg.DryRun)
				assert.Equal(t, SourceEnv, cfg.Source("dry_run"))
			},
		},
		"user config below project": {
			project: map[string]string{ProjectConfigFile: "bump: patch\n"},
			user:    "bump: major\nbackup: true\n",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "patch", cfg.Bump)
				assert.True(t, cfg.Backup)
				assert.Equal(t, SourceUser, cfg.Source("backup"))
			},
		},
		"legacy json": {
			project: map[string]string{LegacyProjectConfigFile: `{"bump": "minor", "namespace_implicit": true}`},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "minor", cfg.Bump)
				assert.True(t, cfg.NamespaceImplicit)
			},
			wantWarn: "deprecated JSON config",
		},
		"yaml wins over legacy json": {
			project: map[string]string{
				ProjectConfigFile:       "bump: major\n",
				LegacyProjectConfigFile: `{"bump": "minor"}`,
			},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "major", cfg.Bump)
			},
			wantWarn: "Legacy JSON config found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, content := range tt.project {
				writeConfig(t, dir, file, content)
			}
			xdg := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", xdg)
			if tt.user != "" {
				writeConfig(t, xdg, filepath.Join("sembump", "config.yml"), tt.user)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var warnings bytes.Buffer
			cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir, WarningWriter: &warnings})
			require.NoError(t, err)
			tt.check(t, cfg)

			if tt.wantWarn != "" {
				assert.Contains(t, warnings.String(), tt.wantWarn)
			}
			if tt.wantNoWarn {
				assert.Empty(t, warnings.String())
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantLine  bool
	}{
		"unknown mode": {
			content:   "mode: everything\n",
			wantField: "mode",
		},
		"unknown git mode": {
			content:   "git: push\n",
			wantField: "git",
		},
		"empty changelog file": {
			content:   "changelog_file: \"\"\n",
			wantField: "changelog_file",
		},
		"header without version": {
			content:   "header_format: \"{date}\"\n",
			wantField: "header_format",
		},
		"broken yaml": {
			content:  "mode: [unclosed\n",
			wantLine: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeConfig(t, dir, ProjectConfigFile, tt.content)

			_, err := LoadWithOptions(LoadOptions{ProjectDir: dir, SkipUserConfig: true})
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, verr.Field)
			}
			if tt.wantLine {
				assert.Positive(t, verr.Line)
			}
		})
	}
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := LoadWithOptions(LoadOptions{ConfigPath: filepath.Join(dir, "missing.yml"), SkipUserConfig: true})
	assert.ErrorContains(t, err, "does not exist")

	path := writeConfig(t, dir, "custom.json", `{"mode": "project_version_only_leaves"}`)
	cfg, err := LoadWithOptions(LoadOptions{ConfigPath: path, SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "project_version_only_leaves", cfg.Mode)
}

func TestConfiguration_Typed(t *testing.T) {
	t.Parallel()

	cfg := &Configuration{Mode: "revision_property", Bump: "minor", Git: "commit"}

	mode, err := cfg.ScopeMode()
	require.NoError(t, err)
	assert.Equal(t, scope.SharedRevisionProperty, mode)

	sev, err := cfg.ForcedSeverity()
	require.NoError(t, err)
	assert.Equal(t, semver.Minor, sev)

	gm, err := cfg.GitMode()
	require.NoError(t, err)
	assert.Equal(t, git.ModeCommit, gm)

	cfg.Bump = BumpFileBased
	sev, err = cfg.ForcedSeverity()
	require.NoError(t, err)
	assert.Equal(t, semver.None, sev)
}

func TestConfiguration_Value(t *testing.T) {
	t.Parallel()

	cfg := &Configuration{Backup: true, ChangelogFile: "HISTORY.md"}
	for _, key := range Keys() {
		_, err := cfg.Value(key)
		assert.NoError(t, err, key)
	}

	v, err := cfg.Value("backup")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	v, err = cfg.Value("changelog_file")
	require.NoError(t, err)
	assert.Equal(t, "HISTORY.md", v)

	_, err = cfg.Value("sources")
	assert.Error(t, err)

	cfg.SetFlag("backup")
	assert.Equal(t, SourceFlag, cfg.Source("backup"))
}

func TestValidateYAMLSyntaxFromBytes(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte("  \n"), "x.yml"))
	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte("mode: project_version\n"), "x.yml"))

	err := ValidateYAMLSyntaxFromBytes([]byte("- a\n- b\n"), "x.yml")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Line)
	assert.Contains(t, verr.Error(), "mapping")

	err = ValidateYAMLSyntaxFromBytes([]byte("mode: project_version\nchangelog: HISTORY.md\n"), "x.yml")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Line)
	assert.Contains(t, verr.Message, `unknown key "changelog"`)

	err = ValidateYAMLSyntaxFromBytes([]byte("mode: [a\n"), "x.yml")
	require.ErrorAs(t, err, &verr)
	assert.Positive(t, verr.Line)
	assert.NotContains(t, verr.Message, "yaml:")
}

func TestMigrateProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	res, err := MigrateProjectConfig(dir, false)
	require.NoError(t, err)
	assert.False(t, res.Migrated)

	writeConfig(t, dir, LegacyProjectConfigFile, `{"git": "stage"}`)

	res, err = MigrateProjectConfig(dir, true)
	require.NoError(t, err)
	assert.False(t, res.Migrated)
	assert.NoFileExists(t, ProjectConfigPath(dir))

	res, err = MigrateProjectConfig(dir, false)
	require.NoError(t, err)
	assert.True(t, res.Migrated)
	assert.NoFileExists(t, LegacyProjectConfigPath(dir))
	assert.FileExists(t, LegacyProjectConfigPath(dir)+".bak")

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir, SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "stage", cfg.Git)
}

func TestMigrateJSONToYAML_OrdersKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jsonPath := writeConfig(t, dir, "old.json", `{"git": "commit", "backup": true, "mode": "revision_property"}`)
	yamlPath := filepath.Join(dir, "new.yml")

	_, err := MigrateJSONToYAML(jsonPath, yamlPath, false)
	require.NoError(t, err)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, migratedHeader+"mode: revision_property\ngit: commit\nbackup: true\n", string(data))

	badPath := writeConfig(t, dir, "bad.json", `{"modus": "x"}`)
	_, err = MigrateJSONToYAML(badPath, filepath.Join(dir, "bad.yml"), false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "modus", verr.Field)
	assert.FileExists(t, badPath)
}

func TestGetDefaultConfigTemplate_Loads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ProjectConfigFile, GetDefaultConfigTemplate())

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir, SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "Release new versions\n\n{summary}", cfg.CommitMessage)
	assert.Equal(t, "Updated dependency {artifact} to {version}", cfg.DependencyMessage)
}
