package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// completionShells lists the supported shells in help order.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionScripts writes the completion script of each shell for root.
var completionScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error {
		return root.GenBashCompletionV2(w, true)
	},
	"zsh": func(root *cobra.Command, w io.Writer) error {
		return root.GenZshCompletion(w)
	},
	"fish": func(root *cobra.Command, w io.Writer) error {
		return root.GenFishCompletion(w, true)
	},
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

// NewCompletionCommand creates the completion command. Scripts are written to
// the command's output so they can be redirected or captured.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion SHELL",
		Short: "Generate shell completion scripts",
		Long: `Generate a TAB completion script for slnmerge commands and flags.

Supported shells: ` + strings.Join(completionShells, ", ") + `.

Examples:
  slnmerge completion bash > /etc/bash_completion.d/slnmerge
  slnmerge completion zsh > "${fpath[1]}/_slnmerge"
  slnmerge completion fish > ~/.config/fish/completions/slnmerge.fish
  slnmerge completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := completionScripts[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q (%s)", args[0], strings.Join(completionShells, ", "))
			}
			return gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
