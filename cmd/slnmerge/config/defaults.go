// cmd/slnmerge/config/defaults.go
package config

import (
	"os"
	"path/filepath"
)

// SettingsFileName is the settings file looked up when --settings is not given
const SettingsFileName = ".slnmerge.yaml"

// DefaultOutput is the merged document written when neither --out nor the
// settings file names one
const DefaultOutput = "merged.sln"

// DefaultSettingsLocations returns the settings files to search in
// precedence order
func DefaultSettingsLocations() []string {
	var locations []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		locations = append(locations, filepath.Join(cwd, SettingsFileName))
	}

	// User config
	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "slnmerge", "settings.yaml"))
	}

	return locations
}

// FindSettingsFile finds the first existing settings file
func FindSettingsFile() string {
	for _, loc := range DefaultSettingsLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}
