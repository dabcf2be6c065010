package config

import (
	"github.com/bsels/sembump/internal/bump"
	"github.com/bsels/sembump/internal/changelog"
)

// DefaultVersioningDir holds pending change notes, relative to the project root.
const DefaultVersioningDir = ".versioning"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# sembump configuration
# See 'sembump config show' for the effective values and where they come from

# Version update settings
mode: project_version                 # project_version | revision_property | project_version_only_leaves
bump: file_based                      # file_based | major | minor | patch
versioning_dir: .versioning           # Directory holding pending change notes
namespace_implicit: false             # Allow notes to omit the group id (root group id is used)

# Changelog settings
changelog_file: CHANGELOG.md          # Changelog file name inside every module directory
header_format: "{version} - {date}"   # Section heading; {date#yyyy-MM-dd} takes a date pattern
dependency_message: "Updated dependency {artifact} to {version}"

# Output settings
dry_run: false                        # Print the plan and diffs without writing files
backup: false                         # Keep pom.xml.versionsBackup copies of rewritten descriptors
log_level: info                       # debug | info | warn | error

# Git settings
git: none                             # none | stage | commit
commit_message: "Release new versions\n\n{summary}"
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"mode":               "project_version",
		"bump":               BumpFileBased,
		"versioning_dir":     DefaultVersioningDir,
		"changelog_file":     bump.DefaultChangelogFile,
		"header_format":      changelog.DefaultHeaderFormat,
		"dependency_message": bump.DefaultDependencyMessage,
		"commit_message":     bump.DefaultCommitMessage,
		"git":                "none",
		"dry_run":            false,
		"backup":             false,
		// namespace_implicit: notes written as "artifact: minor" resolve against the root
		// unit's group id. Off by default so a typo cannot silently target another artifact.
		"namespace_implicit": false,
		"log_level":          "info",
	}
}
