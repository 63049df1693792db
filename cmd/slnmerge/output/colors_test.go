package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const escape = "\x1b["

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{
		"":       ColorAuto,
		"auto":   ColorAuto,
		"Always": ColorAlways,
		"never":  ColorNever,
	} {
		got, err := ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestConsole_ColorModes(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		colored bool
	}{
		{"always", ColorAlways, true},
		{"never", ColorNever, false},
		{"auto on a buffer", ColorAuto, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			c := NewConsole(&out, &errOut, VerbosityDetailed)
			c.SetColorMode(tt.mode)

			c.Success("merged")
			c.Warning("duplicate")
			c.Detail("detail")

			assert.Equal(t, tt.colored, bytes.Contains(out.Bytes(), []byte(escape)))
			assert.Equal(t, tt.colored, bytes.Contains(errOut.Bytes(), []byte(escape)))
			assert.Contains(t, errOut.String(), "Warning: duplicate")
			assert.Contains(t, out.String(), "detail\n")
		})
	}
}

func TestConsole_DetailIsNeverColored(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewConsole(&out, &errOut, VerbosityDetailed)
	c.SetColors(true)

	c.Detail("plain")
	assert.Equal(t, "plain\n", out.String())
}

func TestNoColorEnvDisablesAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("TERM", "xterm-256color")
	assert.False(t, colorize(&bytes.Buffer{}, ColorAuto))
	assert.True(t, colorize(&bytes.Buffer{}, ColorAlways))
}
