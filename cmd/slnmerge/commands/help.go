package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
)

// hiddenFromHelp lists commands left out of the general help listing.
var hiddenFromHelp = map[string]bool{
	"completion": true,
	"help":       true,
}

// NewHelpCommand creates the help command
func NewHelpCommand(console *output.Console, rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Show help information",
		Long:  `Show help information about slnmerge or a specific command.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				showGeneralHelp(console, rootCmd)
				return nil
			}
			return showCommandHelp(rootCmd, args[0])
		},
	}

	return cmd
}

func showGeneralHelp(console *output.Console, rootCmd *cobra.Command) {
	version := rootCmd.Version
	if version == "" {
		version = "dev"
	}

	console.Println(fmt.Sprintf("Solution Merger %s", version))
	console.Println("")
	console.Println("Usage: slnmerge [options] [command]")
	console.Println("")
	console.Println("Options:")
	console.Println("  -h|--help  Show help information")
	console.Println("  --version  Show version information")
	console.Println("")
	console.Println("Commands:")

	for _, cmd := range rootCmd.Commands() {
		if cmd.Hidden || hiddenFromHelp[cmd.Name()] {
			continue
		}
		console.Println(fmt.Sprintf("  %-9s %s", cmd.Name(), cmd.Short))
	}

	console.Println("")
	console.Println("Use \"slnmerge [command] --help\" for more information about a command.")
}

func showCommandHelp(rootCmd *cobra.Command, commandName string) error {
	cmd, _, err := rootCmd.Find([]string{commandName})
	if err != nil || cmd == rootCmd {
		return fmt.Errorf("unknown command: %s\n\nRun 'slnmerge --help' for usage", commandName)
	}
	return cmd.Help()
}
