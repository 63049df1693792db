package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	settings, err := ParseSettings(strings.NewReader(`
out: build/All.sln
exclude:
  - "**/*.Tests.csproj"
  - "samples/**"
nonstop: true
fix: true
`))
	require.NoError(t, err)

	assert.Equal(t, "build/All.sln", settings.Out)
	assert.Equal(t, []string{"**/*.Tests.csproj", "samples/**"}, settings.Exclude)
	assert.True(t, settings.Nonstop)
	assert.True(t, settings.Fix)
}

func TestParseSettings_Empty(t *testing.T) {
	settings, err := ParseSettings(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, &Settings{}, settings)
}

func TestParseSettings_UnknownField(t *testing.T) {
	_, err := ParseSettings(strings.NewReader("outt: x.sln\n"))
	assert.Error(t, err)
}

func TestResolveSettings_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("out: x.sln\n"), 0644))

	settings, used, err := ResolveSettings(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "x.sln", settings.Out)
}

func TestResolveSettings_MissingExplicitPath(t *testing.T) {
	_, _, err := ResolveSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReadListFile(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "abs", "C.sln")
	list := "# solutions to merge\n" +
		"a/A.sln\n" +
		"\n" +
		"   ../B.sln  \n" +
		abs + "\n"
	path := filepath.Join(dir, "solutions.txt")
	require.NoError(t, os.WriteFile(path, []byte(list), 0644))

	paths, err := ReadListFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a", "A.sln"),
		filepath.Join(filepath.Dir(dir), "B.sln"),
		abs,
	}, paths)
}

func TestReadListFile_Missing(t *testing.T) {
	_, err := ReadListFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDefaultSettingsLocations(t *testing.T) {
	locations := DefaultSettingsLocations()
	require.NotEmpty(t, locations)
	assert.Equal(t, SettingsFileName, filepath.Base(locations[0]))
}
