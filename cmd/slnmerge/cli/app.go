// Package cli holds the slnmerge root command and the shared console.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
)

var rootCmd = &cobra.Command{
	Use:   "slnmerge",
	Short: "Merge Visual Studio solution files",
	Long: `slnmerge combines several Visual Studio solution (.sln) files into one,
de-duplicating projects, pruning empty solution folders and reporting or
fixing projects that share a GUID.

Run "slnmerge merge --help" for the merge options.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		value, _ := cmd.Flags().GetString("color")
		mode, err := output.ParseColorMode(value)
		if err != nil {
			return err
		}
		Console.SetColorMode(mode)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	Console = output.DefaultConsole()

	rootCmd.PersistentFlags().String("verbosity", "normal", "Display verbosity (quiet, normal, detailed, diagnostic)")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Do not prompt for user input or confirmations")
	rootCmd.PersistentFlags().String("color", "auto", "Colorize console output (auto, always, never)")
	rootCmd.PersistentFlags().String("settings", "", "Settings file (default: .slnmerge.yaml, then the user config directory)")
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Root returns the root command
func Root() *cobra.Command {
	return rootCmd
}
