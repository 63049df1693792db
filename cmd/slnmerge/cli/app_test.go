package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/version"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
	assert.Equal(t, version.Version, GetVersion())
}

func TestGetFullVersion(t *testing.T) {
	full := GetFullVersion()
	assert.True(t, strings.HasPrefix(full, "slnmerge version "+version.Version))
	assert.Contains(t, full, "commit: ")
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"verbosity", "non-interactive", "settings", "color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootColorFlag(t *testing.T) {
	rootCmd.SetArgs([]string{"--color", "sometimes"})
	defer rootCmd.SetArgs(nil)
	defer func() { _ = rootCmd.PersistentFlags().Set("color", "auto") }()

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, `invalid color mode "sometimes"`)
}

func TestSetupVersion(t *testing.T) {
	SetupVersion()
	assert.Equal(t, version.Version, rootCmd.Version)
}
