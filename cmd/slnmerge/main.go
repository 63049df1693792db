package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/cli"
	"github.com/willibrandon/slnmerge/cmd/slnmerge/commands"
	"github.com/willibrandon/slnmerge/cmd/slnmerge/version"
)

// Version information (set via ldflags during build)
var (
	buildVersion = "dev"
	commit       = "none"
	date         = "unknown"
	builtBy      = "unknown"
)

func main() {
	version.Version = buildVersion
	version.Commit = commit
	version.Date = date
	version.BuiltBy = builtBy

	cli.SetupVersion()

	cli.AddCommand(commands.NewMergeCommand(cli.Console))
	cli.AddCommand(commands.NewDiagnoseCommand(cli.Console))
	cli.AddCommand(commands.NewVersionCommand(cli.Console))
	cli.AddCommand(commands.NewCompletionCommand())
	cli.Root().SetHelpCommand(commands.NewHelpCommand(cli.Console, cli.Root()))

	// Cancel in-flight work on the first signal, exit on the second
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		<-sigChan
		os.Exit(130) // 128 + SIGINT
	}()

	err := cli.Execute(ctx)
	cancel()
	os.Exit(exitCode(err))
}

// exitCode prints unreported errors to stderr and maps err to the process
// exit code.
func exitCode(err error) int {
	if err != nil && !commands.IsReported(err) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return commands.ExitCode(err)
}
