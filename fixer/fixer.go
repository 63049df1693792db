package fixer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/willibrandon/slnmerge/observability"
	"github.com/willibrandon/slnmerge/solution"
	"github.com/willibrandon/slnmerge/storage"
)

// Substitution replaces one GUID with another inside one file.
type Substitution struct {
	File    string
	OldGUID string
	NewGUID string
}

// Result reports what a repair pass did. Err aggregates per-file failures;
// files that failed were left untouched.
type Result struct {
	Substitutions []Substitution
	Rewritten     []string
	Err           error
}

// Errors renders the aggregated failures one per line, or "" when there is none.
func (r *Result) Errors() string {
	if r == nil || r.Err == nil {
		return ""
	}
	merr, ok := r.Err.(*multierror.Error)
	if !ok {
		return r.Err.Error() + "\n"
	}
	var b strings.Builder
	for _, err := range merr.Errors {
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// Fixer rewrites project and solution files to give colliding projects fresh GUIDs.
type Fixer struct {
	store   storage.Store
	logger  observability.Logger
	newGUID func() string
}

// Option configures a Fixer
type Option func(*Fixer)

// WithLogger sets the logger
func WithLogger(logger observability.Logger) Option {
	return func(f *Fixer) {
		f.logger = logger
	}
}

// WithGUIDGenerator replaces the random GUID source
func WithGUIDGenerator(gen func() string) Option {
	return func(f *Fixer) {
		f.newGUID = gen
	}
}

// New creates a fixer writing through store
func New(store storage.Store, opts ...Option) *Fixer {
	f := &Fixer{
		store:   store,
		logger:  observability.NewNullLogger(),
		newGUID: func() string { return solution.NormalizeGUID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Plan computes the substitutions that give every colliding project except
// the first of each collision a fresh GUID: one in the project's own file and
// one in each solution declaring it. A solution that declares two projects of
// the same collision cannot be rewritten unambiguously; that project is
// reported and left alone.
func (f *Fixer) Plan(collisions []Collision) ([]Substitution, error) {
	var subs []Substitution
	var merr *multierror.Error

	for _, c := range collisions {
	entries:
		for _, e := range c.Entries[1:] {
			for _, sln := range e.Solutions {
				if declaresOther(sln, c, e.Project.Key()) {
					merr = multierror.Append(merr, fmt.Errorf(
						"%s: declares more than one project with GUID %s, %s not rewritten",
						sln.Path, c.GUID, e.Project.Location()))
					continue entries
				}
			}

			newGUID := solution.NormalizeGUID(f.newGUID())
			if _, isLeaf := e.Project.(*solution.LeafProject); isLeaf &&
				solution.IsProjectFile(e.Project.Location()) && !storage.IsURL(e.Project.Location()) {
				subs = append(subs, Substitution{File: e.Project.Location(), OldGUID: c.GUID, NewGUID: newGUID})
			}
			for _, sln := range e.Solutions {
				subs = append(subs, Substitution{File: sln.Path, OldGUID: c.GUID, NewGUID: newGUID})
			}
		}
	}

	return subs, merr.ErrorOrNil()
}

func declaresOther(sln *solution.Solution, c Collision, self solution.Key) bool {
	for _, other := range c.Entries {
		if other.Project.Key() == self {
			continue
		}
		if _, ok := sln.Find(other.Project.Key()); ok {
			return true
		}
	}
	return false
}

// Fix diagnoses solutions and repairs every collision found. Write failures are
// aggregated in the result; one failing file does not stop the others.
func (f *Fixer) Fix(ctx context.Context, filter solution.Filter, solutions ...*solution.Solution) *Result {
	ctx, span := observability.StartFixSpan(ctx, len(solutions))

	collisions := FindCollisions(filter, solutions...)
	subs, planErr := f.Plan(collisions)

	result := f.Apply(ctx, subs)
	if planErr != nil {
		result.Err = multierror.Append(planErr, flatten(result.Err)...).ErrorOrNil()
	}

	observability.EndSpanWithError(span, result.Err)
	return result
}

// Apply validates that every target file is writable, then rewrites each file
// once with all of its substitutions. Files failing validation are skipped.
func (f *Fixer) Apply(ctx context.Context, subs []Substitution) *Result {
	result := &Result{Substitutions: subs}
	var merr *multierror.Error

	files, byFile := groupByFile(subs)

	writable := make([]string, 0, len(files))
	for _, file := range files {
		if err := f.store.Writable(ctx, file); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", file, err))
			observability.FixerFilesTotal.WithLabelValues("failure").Inc()
			continue
		}
		writable = append(writable, file)
	}

	for _, file := range writable {
		if err := f.rewrite(ctx, file, byFile[file]); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", file, err))
			observability.FixerFilesTotal.WithLabelValues("failure").Inc()
			f.logger.WarnContext(ctx, "Failed to rewrite {File}: {Error}", file, err)
			continue
		}
		result.Rewritten = append(result.Rewritten, file)
		observability.FixerFilesTotal.WithLabelValues("success").Inc()
		f.logger.InfoContext(ctx, "Rewrote {File} with {Count} GUID replacements", file, len(byFile[file]))
	}

	result.Err = merr.ErrorOrNil()
	return result
}

func (f *Fixer) rewrite(ctx context.Context, file string, subs []Substitution) error {
	data, err := f.store.ReadAll(ctx, file)
	if err != nil {
		return err
	}
	text := string(data)
	for _, s := range subs {
		text = replaceGUID(text, s.OldGUID, s.NewGUID)
	}
	return f.store.WriteAll(ctx, file, []byte(text))
}

// replaceGUID replaces every case-insensitive occurrence of oldGUID's digits
// with newGUID's digits, leaving surrounding braces as they were.
func replaceGUID(text, oldGUID, newGUID string) string {
	oldBare := strings.Trim(oldGUID, "{}")
	newBare := strings.Trim(newGUID, "{}")
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(oldBare))
	return re.ReplaceAllLiteralString(text, newBare)
}

func groupByFile(subs []Substitution) ([]string, map[string][]Substitution) {
	var files []string
	byFile := make(map[string][]Substitution)
	for _, s := range subs {
		if _, ok := byFile[s.File]; !ok {
			files = append(files, s.File)
		}
		byFile[s.File] = append(byFile[s.File], s)
	}
	return files, byFile
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if merr, ok := err.(*multierror.Error); ok {
		return merr.Errors
	}
	return []error{err}
}
