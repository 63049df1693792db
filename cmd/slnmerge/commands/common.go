package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-zglob"
	"github.com/spf13/cobra"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
	"github.com/willibrandon/slnmerge/cmd/slnmerge/version"
	"github.com/willibrandon/slnmerge/observability"
	"github.com/willibrandon/slnmerge/solution"
	"github.com/willibrandon/slnmerge/storage"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	Verbosity      string
	NonInteractive bool
	SettingsPath   string
}

// globalOptions reads the persistent root flags. Missing flags keep their
// zero values so commands also run outside the root command in tests.
func globalOptions(cmd *cobra.Command) GlobalOptions {
	var g GlobalOptions
	flags := cmd.Flags()
	if v, err := flags.GetString("verbosity"); err == nil {
		g.Verbosity = v
	}
	if v, err := flags.GetBool("non-interactive"); err == nil {
		g.NonInteractive = v
	}
	if v, err := flags.GetString("settings"); err == nil {
		g.SettingsPath = v
	}
	return g
}

// applyVerbosity sets the console verbosity and returns the structured logger
// for the same level. Below detailed the logger is silent since the console
// already reports warnings and errors.
func applyVerbosity(console *output.Console, verbosity string) (observability.Logger, error) {
	v, err := output.ParseVerbosity(verbosity)
	if err != nil {
		return nil, err
	}
	console.SetVerbosity(v)

	level, err := observability.ParseLogLevel(verbosity)
	if err != nil {
		return nil, err
	}
	if level > observability.InfoLevel {
		return observability.NewNullLogger(), nil
	}
	return observability.NewLogger(os.Stderr, level), nil
}

// TraceOptions selects the span exporter for a run.
type TraceOptions struct {
	Exporter     string
	OTLPEndpoint string
}

// startTracing installs the configured exporter and returns its shutdown
// function. The "none" exporter installs nothing.
func startTracing(ctx context.Context, opts TraceOptions) (func(), error) {
	if opts.Exporter == "" || opts.Exporter == observability.ExporterNone {
		return func() {}, nil
	}

	config := observability.DefaultTracerConfig()
	config.ServiceVersion = version.Version
	config.ExporterType = opts.Exporter
	config.OTLPEndpoint = opts.OTLPEndpoint

	tp, err := observability.SetupTracing(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	return func() {
		_ = observability.ShutdownTracing(context.Background(), tp)
	}, nil
}

// addTraceFlags registers the tracing flags on cmd.
func addTraceFlags(cmd *cobra.Command, opts *TraceOptions) {
	cmd.Flags().StringVar(&opts.Exporter, "trace", observability.ExporterNone, "Span exporter: none, stdout or otlp")
	cmd.Flags().StringVar(&opts.OTLPEndpoint, "otlp-endpoint", "localhost:4317", "OTLP collector endpoint used with --trace otlp")
}

// ExcludeFilter builds a project filter rejecting leaf projects whose
// location matches any of patterns. Patterns are zglob expressions matched
// against the project path relative to baseDir and against the absolute path.
// Folders are never excluded directly; they are pruned once empty.
func ExcludeFilter(patterns []string, baseDir string) (solution.Filter, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	for _, pattern := range patterns {
		if _, err := zglob.Match(pattern, "x"); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	return func(p solution.Project) bool {
		leaf, ok := p.(*solution.LeafProject)
		if !ok {
			return true
		}
		candidates := []string{filepath.ToSlash(leaf.Location())}
		if rel, err := filepath.Rel(baseDir, leaf.Location()); err == nil {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
		for _, pattern := range patterns {
			for _, name := range candidates {
				if matched, _ := zglob.Match(pattern, name); matched {
					return false
				}
			}
		}
		return true
	}, nil
}

// parseAll parses every input in order. The first failure aborts.
func parseAll(ctx context.Context, parser *solution.Parser, console *output.Console, paths []string) ([]*solution.Solution, error) {
	solutions := make([]*solution.Solution, 0, len(paths))
	for _, path := range paths {
		sln, err := parser.Parse(ctx, path)
		if err != nil {
			return nil, err
		}
		console.Detail("Parsed %s: %d projects", sln.Path, len(sln.Projects))
		for _, missing := range sln.MissingSections {
			console.Detail("%s has no %s section", sln.Path, missing)
		}
		solutions = append(solutions, sln)
	}
	return solutions, nil
}

// newStore returns the storage backend used by every command.
func newStore() storage.Store {
	return storage.NewRetryStore(storage.New(), nil)
}
