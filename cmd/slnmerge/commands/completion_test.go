package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompletion(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "slnmerge", SilenceErrors: true, SilenceUsage: true}
	root.AddCommand(NewCompletionCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"completion"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCompletionCommand_Shells(t *testing.T) {
	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			script, err := runCompletion(t, shell)
			require.NoError(t, err)
			assert.Contains(t, script, "slnmerge")
		})
	}
}

func TestCompletionCommand_Fish(t *testing.T) {
	script, err := runCompletion(t, "fish")
	require.NoError(t, err)
	assert.Contains(t, script, "complete -c slnmerge")
}

func TestCompletionCommand_RejectsUnknownShell(t *testing.T) {
	_, err := runCompletion(t, "tcsh")
	assert.Error(t, err)

	_, err = runCompletion(t)
	assert.Error(t, err)
}
