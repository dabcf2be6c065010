package config

import (
	"os"
	"path/filepath"
)

// File names looked up in the project directory.
const (
	ProjectConfigFile       = ".sembump.yml"
	LegacyProjectConfigFile = ".sembump.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/sembump/config.yml
// - macOS: ~/Library/Application Support/sembump/config.yml
// - Windows: %APPDATA%\sembump\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "sembump", "config.yml"), nil
}

// ProjectConfigPath returns the project-level config file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFile)
}

// LegacyProjectConfigPath returns the legacy JSON project config file in dir.
func LegacyProjectConfigPath(dir string) string {
	return filepath.Join(dir, LegacyProjectConfigFile)
}
