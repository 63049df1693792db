package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
	"github.com/willibrandon/slnmerge/solution"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFatal},
		{"warnings", NewExitError(ExitWarnings, nil), ExitWarnings},
		{"wrapped", fmt.Errorf("run: %w", NewExitError(ExitFixerErrors, errors.New("x"))), ExitFixerErrors},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit status 2", NewExitError(ExitWarnings, nil).Error())
	assert.Equal(t, "x", NewExitError(ExitFixerErrors, errors.New("x")).Error())
}

func TestExcludeFilter(t *testing.T) {
	base := t.TempDir()
	sln, err := solution.Parse([]byte(
		"Project(\"{9A19103F-16F7-4668-BE54-9A1E7A4F7556}\") = \"App\", \"src\\App\\App.csproj\", \"{11111111-1111-1111-1111-111111111111}\"\nEndProject\n"+
			"Project(\"{9A19103F-16F7-4668-BE54-9A1E7A4F7556}\") = \"App.Tests\", \"tests\\App.Tests\\App.Tests.csproj\", \"{22222222-2222-2222-2222-222222222222}\"\nEndProject\n"+
			"Project(\"{2150E333-8FDC-42A3-9474-1A3956D46DE8}\") = \"tests\", \"tests\", \"{33333333-3333-3333-3333-333333333333}\"\nEndProject\n"+
			"Global\nEndGlobal\n"), filepath.Join(base, "All.sln"))
	require.NoError(t, err)
	require.Len(t, sln.Projects, 3)

	filter, err := ExcludeFilter([]string{"tests/**"}, base)
	require.NoError(t, err)

	assert.True(t, filter.Accepts(sln.Projects[0]))
	assert.False(t, filter.Accepts(sln.Projects[1]))
	assert.True(t, filter.Accepts(sln.Projects[2]), "folders are never excluded directly")

	none, err := ExcludeFilter(nil, base)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestConfirm(t *testing.T) {
	console, out, _ := testConsole()

	require.NoError(t, confirm(console, strings.NewReader("\n"), "Files will be modified."))
	assert.Contains(t, out.String(), "Files will be modified.")
	assert.Contains(t, out.String(), "Press ENTER to continue")

	assert.ErrorIs(t, confirm(console, strings.NewReader("n\n")), ErrAborted)
	assert.ErrorIs(t, confirm(console, strings.NewReader("")), ErrAborted)
}

func TestIsInteractive(t *testing.T) {
	assert.False(t, isInteractive(strings.NewReader("")))
}

func TestApplyVerbosity(t *testing.T) {
	console, _, _ := testConsole()

	_, err := applyVerbosity(console, "detailed")
	require.NoError(t, err)
	assert.Equal(t, output.VerbosityDetailed, console.GetVerbosity())

	_, err = applyVerbosity(console, "loud")
	assert.Error(t, err)
}
