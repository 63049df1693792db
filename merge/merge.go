// Package merge combines parsed solution documents into one solution.
package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/willibrandon/slnmerge/fixer"
	"github.com/willibrandon/slnmerge/observability"
	"github.com/willibrandon/slnmerge/solution"
)

var (
	// ErrInvalidArgument is returned when Merge is called without solutions.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyResult is returned when no project survives filtering and pruning.
	ErrEmptyResult = errors.New("no projects found to include into merged solution")
)

const (
	solutionItems      = "Solution Items"
	innerSolutionItems = "Inner Solution Items"
)

// Options configures a merge
type Options struct {
	// Filter selects the projects to merge; nil keeps every project
	Filter solution.Filter

	// Logger receives progress messages; nil discards them
	Logger observability.Logger
}

// Result is a merged solution plus the diagnostics the caller must surface.
type Result struct {
	Solution *solution.Solution

	// Warnings holds one line per identity collision, "" when there is none
	Warnings string

	// Collisions are the identity collisions behind Warnings
	Collisions []fixer.Collision
}

// Merge combines solutions into a new solution named name in baseDir.
// Inputs are not modified: projects are cloned before any rename or pruning.
func Merge(ctx context.Context, name, baseDir string, opts Options, solutions ...*solution.Solution) (result *Result, err error) {
	if len(solutions) == 0 {
		return nil, fmt.Errorf("%w: no solutions to merge", ErrInvalidArgument)
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	start := time.Now()
	ctx, span := observability.StartMergeSpan(ctx, name, len(solutions))
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		observability.MergesTotal.WithLabelValues(status).Inc()
		observability.MergeDuration.Observe(time.Since(start).Seconds())
		observability.EndSpanWithError(span, err)
	}()

	projects := collect(solutions, opts.Filter)

	collisions := fixer.FindCollisions(opts.Filter, solutions...)
	observability.IdentityCollisionsTotal.Add(float64(len(collisions)))
	for _, c := range collisions {
		logger.WarnContext(ctx, "Duplicate project GUID {GUID} across {Count} locations", c.GUID, len(c.Entries))
	}

	renameSolutionItems(projects)

	before := len(projects)
	projects = Prune(projects)
	observability.MergeProjectsTotal.WithLabelValues("pruned").Add(float64(before - len(projects)))

	if len(projects) == 0 {
		return nil, ErrEmptyResult
	}
	observability.MergeProjectsTotal.WithLabelValues("kept").Add(float64(len(projects)))

	merged := solution.New(name, baseDir, solutions[0].Properties.Clone())
	merged.InheritFormat(solutions[0])
	merged.Projects = projects

	unionPlatforms(merged, projects)

	merged.Hierarchy = solution.HierarchyFromRelations(projects)
	for _, p := range projects {
		p.SetSolution(merged)
	}

	guid, err := SolutionGUID(projects)
	if err != nil {
		return nil, err
	}
	merged.Globals.SetSolutionGUID(guid)

	observability.RecordProjectCount(ctx, len(projects))
	logger.InfoContext(ctx, "Merged {SolutionCount} solutions into {ProjectCount} projects", len(solutions), len(projects))

	return &Result{
		Solution:   merged,
		Warnings:   fixer.Warnings(collisions),
		Collisions: collisions,
	}, nil
}

// collect flattens the projects of solutions in input order, keeping clones of
// the first project per key that passes filter. A later project reusing an
// already kept GUID at a different location is dropped. Folders declared
// twice contribute the children of every declaration.
func collect(solutions []*solution.Solution, filter solution.Filter) []solution.Project {
	var projects []solution.Project
	byKey := make(map[solution.Key]solution.Project)
	guidOwner := make(map[string]solution.Key)

	for _, sln := range solutions {
		for _, p := range sln.Projects {
			if !filter.Accepts(p) {
				observability.MergeProjectsTotal.WithLabelValues("filtered").Inc()
				continue
			}

			if kept, dup := byKey[p.Key()]; dup {
				observability.MergeProjectsTotal.WithLabelValues("duplicate").Inc()
				unionChildren(kept, p)
				continue
			}

			if key, taken := guidOwner[p.GUID()]; taken && key != p.Key() {
				observability.MergeProjectsTotal.WithLabelValues("collision").Inc()
				continue
			}

			clone := p.Clone()
			byKey[p.Key()] = clone
			guidOwner[p.GUID()] = p.Key()
			projects = append(projects, clone)
		}
	}
	return projects
}

func unionChildren(kept, dup solution.Project) {
	keptFolder, ok := kept.(*solution.FolderProject)
	if !ok {
		return
	}
	dupFolder, ok := dup.(*solution.FolderProject)
	if !ok {
		return
	}
	for _, child := range dupFolder.NestedProjects() {
		keptFolder.AddNested(child)
	}
}

// renameSolutionItems renames top-level "Solution Items" folders so they do
// not clash with the merged solution's own items folder.
func renameSolutionItems(projects []solution.Project) {
	for _, folder := range solution.RootFolders(projects) {
		if strings.EqualFold(folder.Name(), solutionItems) {
			folder.SetDisplayName(innerSolutionItems)
		}
	}
}

// Prune removes, until nothing changes, child references to projects absent
// from projects and folders left without children and metadata.
// Pruning an already pruned list returns it unchanged.
func Prune(projects []solution.Project) []solution.Project {
	for {
		changed := false

		present := make(map[solution.Key]struct{}, len(projects))
		for _, p := range projects {
			present[p.Key()] = struct{}{}
		}
		for _, p := range projects {
			folder, ok := p.(*solution.FolderProject)
			if !ok {
				continue
			}
			for _, child := range folder.NestedProjects() {
				if _, ok := present[child]; !ok {
					folder.RemoveNested(child)
					changed = true
				}
			}
		}

		kept := projects[:0]
		for _, p := range projects {
			if folder, ok := p.(*solution.FolderProject); ok && folder.IsEmpty() {
				changed = true
				continue
			}
			kept = append(kept, p)
		}
		projects = kept

		if !changed {
			return projects
		}
	}
}

// unionPlatforms fills both platform sections of merged with the distinct rows
// of the solutions still owning projects, in first-appearance order.
func unionPlatforms(merged *solution.Solution, projects []solution.Project) {
	visited := make(map[*solution.Solution]struct{})
	for _, p := range projects {
		owner := p.Solution()
		if owner == nil {
			continue
		}
		if _, done := visited[owner]; done {
			continue
		}
		visited[owner] = struct{}{}
		merged.SolutionPlatforms.Add(owner.SolutionPlatforms.Lines()...)
		merged.ProjectPlatforms.Add(owner.ProjectPlatforms.Lines()...)
	}
}
