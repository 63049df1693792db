// Package config loads slnmerge settings and solution list files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds defaults for the merge command. Command-line flags
// override every field they set.
type Settings struct {
	// Out is the merged document path
	Out string `yaml:"out,omitempty"`

	// Exclude lists glob patterns; projects whose path matches one are skipped
	Exclude []string `yaml:"exclude,omitempty"`

	// Nonstop disables the confirmation prompt before fixing
	Nonstop bool `yaml:"nonstop,omitempty"`

	// Fix repairs duplicate project GUIDs before merging
	Fix bool `yaml:"fix,omitempty"`
}

// LoadSettings reads a settings file
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseSettings(f)
}

// ParseSettings parses YAML settings from a reader. An empty document
// yields zero settings.
func ParseSettings(r io.Reader) (*Settings, error) {
	var settings Settings
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	return &settings, nil
}

// ResolveSettings loads path when given, otherwise the first settings file
// found in the default locations. It returns zero settings when none exists.
func ResolveSettings(path string) (*Settings, string, error) {
	if path == "" {
		path = FindSettingsFile()
	}
	if path == "" {
		return &Settings{}, "", nil
	}
	settings, err := LoadSettings(path)
	if err != nil {
		return nil, path, err
	}
	return settings, path, nil
}
