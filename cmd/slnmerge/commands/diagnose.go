package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
	"github.com/willibrandon/slnmerge/fixer"
	"github.com/willibrandon/slnmerge/solution"
	"github.com/willibrandon/slnmerge/storage"
)

// DiagnoseOptions holds the configuration for the diagnose command.
type DiagnoseOptions struct {
	Inputs  []string
	Exclude []string
	Format  string

	GlobalOptions

	// Store reads documents; nil uses the default store
	Store storage.Store
}

// NewDiagnoseCommand creates the diagnose command.
func NewDiagnoseCommand(console *output.Console) *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose SOLUTION|DIRECTORY...",
		Short: "Report projects sharing a GUID across solutions",
		Long: `Report every project GUID used by projects at different paths across the
given solutions. Nothing is modified. Exits with code 2 when collisions exist.

Examples:
  slnmerge diagnose A.sln B.sln
  slnmerge diagnose src --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = args
			opts.GlobalOptions = globalOptions(cmd)
			return runDiagnose(cmd.Context(), console, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob of project paths to leave out (repeatable)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text or json")

	return cmd
}

func runDiagnose(ctx context.Context, console *output.Console, opts *DiagnoseOptions) error {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := applyVerbosity(console, opts.Verbosity)
	if err != nil {
		return err
	}

	inputs, err := solution.ExpandInputs(opts.Inputs)
	if err != nil {
		return err
	}
	filter, err := ExcludeFilter(opts.Exclude, ".")
	if err != nil {
		return err
	}

	store := opts.Store
	if store == nil {
		store = newStore()
	}
	parser := solution.NewParser(solution.WithStore(store), solution.WithLogger(logger))
	solutions, err := parseAll(ctx, parser, console, inputs)
	if err != nil {
		return err
	}

	warnings := fixer.Diagnose(filter, solutions...)

	switch opts.Format {
	case "json":
		if err := output.WriteJSON(console.Out(), output.NewDiagnoseOutput(inputs, warnings, start)); err != nil {
			return err
		}
	default:
		console.Warnings(warnings)
		if warnings == "" {
			console.Success("No duplicate project GUIDs in %d solutions", len(solutions))
		}
	}

	if warnings != "" {
		return NewExitError(ExitWarnings, nil)
	}
	return nil
}
