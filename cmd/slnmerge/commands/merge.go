package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/config"
	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
	"github.com/willibrandon/slnmerge/fixer"
	"github.com/willibrandon/slnmerge/merge"
	"github.com/willibrandon/slnmerge/observability"
	"github.com/willibrandon/slnmerge/solution"
	"github.com/willibrandon/slnmerge/storage"
)

// MergeOptions holds the configuration for the merge command.
type MergeOptions struct {
	Inputs      []string
	Out         string
	ListFile    string
	Fix         bool
	Replace     bool
	Nonstop     bool
	Exclude     []string
	Format      string
	MetricsFile string
	Trace       TraceOptions

	GlobalOptions

	// Stdin answers confirmation prompts
	Stdin io.Reader

	// Store reads and writes documents; nil uses the default store
	Store storage.Store
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(console *output.Console) *cobra.Command {
	opts := &MergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge [SOLUTION|DIRECTORY]...",
		Short: "Merge solution files into one solution",
		Long: `Merge several Visual Studio solution files into a single solution.

Projects are de-duplicated by GUID and path, empty solution folders are
removed and the configuration matrices of all inputs are combined. Projects
that reuse a GUID at different paths are reported as warnings; --fix assigns
them fresh GUIDs in their project and solution files before merging.

Directories are searched recursively for .sln files.

Exit codes:
  0  merged without warnings
  1  fatal error, nothing written
  2  merged with warnings
  3  merged, but the GUID fixer failed on some files

Examples:
  slnmerge merge A.sln B.sln -o All.sln
  slnmerge merge --config solutions.txt --fix --nonstop
  slnmerge merge src --exclude "**/*.Tests.csproj" --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = args
			opts.GlobalOptions = globalOptions(cmd)
			opts.Stdin = cmd.InOrStdin()
			if err := applySettings(cmd, opts); err != nil {
				return err
			}
			return runMerge(cmd.Context(), console, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", config.DefaultOutput, "Path of the merged solution file")
	cmd.Flags().StringVar(&opts.ListFile, "config", "", "File listing solutions to merge, one per line")
	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Assign fresh GUIDs to colliding projects before merging (modifies project and solution files)")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "Replace every GUID in the input solutions with a fresh one before merging")
	cmd.Flags().BoolVar(&opts.Nonstop, "nonstop", false, "Do not prompt before fixing or before exiting with warnings")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob of project paths to leave out (repeatable)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	addTraceFlags(cmd, &opts.Trace)

	return cmd
}

// applySettings fills options the user did not set on the command line from
// the settings file, if one is found.
func applySettings(cmd *cobra.Command, opts *MergeOptions) error {
	settings, _, err := config.ResolveSettings(opts.SettingsPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("out") && settings.Out != "" {
		opts.Out = settings.Out
	}
	if !flags.Changed("exclude") {
		opts.Exclude = append(opts.Exclude, settings.Exclude...)
	}
	if !flags.Changed("nonstop") {
		opts.Nonstop = opts.Nonstop || settings.Nonstop
	}
	if !flags.Changed("fix") {
		opts.Fix = opts.Fix || settings.Fix
	}
	return nil
}

// mergeRun carries the state of one merge invocation.
type mergeRun struct {
	opts    *MergeOptions
	console *output.Console
	logger  observability.Logger
	store   storage.Store
	filter  solution.Filter
	errors  strings.Builder
}

func runMerge(ctx context.Context, console *output.Console, opts *MergeOptions) (err error) {
	start := time.Now()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q (text, json)", opts.Format)
	}

	logger, err := applyVerbosity(console, opts.Verbosity)
	if err != nil {
		return err
	}

	run := &mergeRun{opts: opts, console: console, logger: logger, store: opts.Store}
	if run.store == nil {
		run.store = newStore()
	}

	inputs, err := run.inputs()
	if err != nil {
		return err
	}
	out, err := outputPath(opts.Out)
	if err != nil {
		return err
	}
	if err := run.store.Writable(ctx, out); err != nil {
		return fmt.Errorf("cannot write merged solution %s: %w", out, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	if run.filter, err = ExcludeFilter(opts.Exclude, cwd); err != nil {
		return err
	}

	stopTracing, err := startTracing(ctx, opts.Trace)
	if err != nil {
		return err
	}
	defer stopTracing()

	if opts.MetricsFile != "" {
		defer func() {
			if werr := writeMetricsFile(opts.MetricsFile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	if opts.Replace {
		run.replace(ctx, inputs)
	}

	parser := solution.NewParser(solution.WithStore(run.store), solution.WithLogger(logger))
	solutions, err := parseAll(ctx, parser, console, inputs)
	if err != nil {
		return err
	}

	if opts.Fix {
		if solutions, err = run.fix(ctx, parser, inputs, solutions); err != nil {
			return err
		}
	}

	name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	result, err := merge.Merge(ctx, name, filepath.Dir(out), merge.Options{
		Filter: run.filter,
		Logger: logger,
	}, solutions...)
	if err != nil {
		return err
	}
	if err := result.Solution.Save(ctx, run.store); err != nil {
		return err
	}

	return run.report(result, out, start)
}

// inputs collects the positional inputs and the list file entries, then
// expands directories into the solution files they contain.
func (r *mergeRun) inputs() ([]string, error) {
	paths := append([]string(nil), r.opts.Inputs...)
	if r.opts.ListFile != "" {
		listed, err := config.ReadListFile(r.opts.ListFile)
		if err != nil {
			return nil, err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return nil, errors.New("no solutions to merge: pass solution files, directories or --config")
	}
	return solution.ExpandInputs(paths)
}

// outputPath makes out absolute and gives it the .sln extension.
func outputPath(out string) (string, error) {
	if out == "" {
		out = config.DefaultOutput
	}
	if storage.IsURL(out) {
		return "", fmt.Errorf("output %s must be a local path", out)
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("invalid output path %s: %w", out, err)
	}
	if !solution.IsSolutionFile(abs) {
		abs = strings.TrimSuffix(abs, filepath.Ext(abs)) + ".sln"
	}
	return abs, nil
}

// replace regenerates every GUID in the input documents.
func (r *mergeRun) replace(ctx context.Context, inputs []string) {
	r.console.Warning("Every GUID in %d solution files is going to be replaced", len(inputs))
	result := fixer.New(r.store, fixer.WithLogger(r.logger)).Regenerate(ctx, inputs...)
	r.console.Detail("Replaced %d GUIDs in %d files", len(result.Substitutions), len(result.Rewritten))
	r.errors.WriteString(result.Errors())
}

// fix repairs identity collisions in place, then parses the inputs again so
// the merge sees the rewritten documents.
func (r *mergeRun) fix(ctx context.Context, parser *solution.Parser, inputs []string, solutions []*solution.Solution) ([]*solution.Solution, error) {
	if r.opts.Format == "text" && !r.opts.Nonstop && !r.opts.NonInteractive && isInteractive(r.opts.Stdin) {
		err := confirm(r.console, r.opts.Stdin,
			"Project and solution files with duplicate GUIDs are going to be modified.",
			"Please make sure that you have a backup copy.")
		if err != nil {
			return nil, err
		}
	}

	result := fixer.New(r.store, fixer.WithLogger(r.logger)).Fix(ctx, r.filter, solutions...)
	for _, sub := range result.Substitutions {
		r.console.Detail("%s: %s -> %s", sub.File, sub.OldGUID, sub.NewGUID)
	}
	r.errors.WriteString(result.Errors())

	if len(result.Rewritten) == 0 {
		return solutions, nil
	}
	return parseAll(ctx, parser, r.console, inputs)
}

// report writes the outcome and maps it to an exit code.
func (r *mergeRun) report(result *merge.Result, out string, start time.Time) error {
	errorsText := r.errors.String()

	if r.opts.Format == "json" {
		doc := output.NewMergeOutput(out)
		for _, p := range result.Solution.Projects {
			_, isFolder := p.(*solution.FolderProject)
			doc.Projects = append(doc.Projects, output.ProjectOutput{
				Name:   p.Name(),
				GUID:   p.GUID(),
				Path:   projectPath(p),
				Folder: isFolder,
			})
		}
		doc.SolutionGUID = result.Solution.Globals.SolutionGUID()
		if w := output.Lines(result.Warnings); w != nil {
			doc.Warnings = w
		}
		if e := output.Lines(errorsText); e != nil {
			doc.Errors = e
		}
		doc.ElapsedMs = output.MeasureElapsed(start)
		if err := output.WriteJSON(r.console.Out(), doc); err != nil {
			return err
		}
	} else {
		r.console.Success("Merged solution: %s", out)
		r.console.Detail("%d projects, elapsed %s", len(result.Solution.Projects), time.Since(start).Round(time.Millisecond))
		r.console.Errors(errorsText)
		r.console.Warnings(result.Warnings)
		if result.Warnings != "" && !r.opts.Fix {
			r.console.Info("Run again with --fix to assign fresh GUIDs to colliding projects.")
		}
	}

	code := ExitSuccess
	switch {
	case errorsText != "":
		code = ExitFixerErrors
	case result.Warnings != "":
		code = ExitWarnings
	}
	if code == ExitSuccess {
		return nil
	}

	if r.opts.Format == "text" && !r.opts.Nonstop && !r.opts.NonInteractive && isInteractive(r.opts.Stdin) {
		pause(r.console, r.opts.Stdin)
	}
	return NewExitError(code, nil)
}

// projectPath is the path a project is written with in the merged document.
func projectPath(p solution.Project) string {
	if leaf, ok := p.(*solution.LeafProject); ok {
		return leaf.RelativePath()
	}
	return p.Location()
}

// writeMetricsFile dumps the metrics registry in text exposition format.
func writeMetricsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	if err := observability.WriteMetrics(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return f.Close()
}
