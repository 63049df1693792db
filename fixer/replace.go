package fixer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/willibrandon/slnmerge/observability"
	"github.com/willibrandon/slnmerge/solution"
)

var guidRegex = regexp.MustCompile(`(?i)[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}`)

// Regenerate rewrites every GUID-shaped token in each file with a fresh GUID.
// One mapping is shared by all files so cross-file references stay consistent.
// Well-known project type GUIDs are left alone. Each file is read, rewritten
// and written independently; failures are aggregated in the result.
func (f *Fixer) Regenerate(ctx context.Context, paths ...string) *Result {
	ctx, span := observability.StartFixSpan(ctx, len(paths))

	result := &Result{}
	var merr *multierror.Error
	mapping := make(map[string]string)

	for _, path := range paths {
		if err := f.regenerateFile(ctx, path, mapping, result); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", path, err))
			observability.FixerFilesTotal.WithLabelValues("failure").Inc()
			f.logger.WarnContext(ctx, "Failed to regenerate GUIDs in {File}: {Error}", path, err)
			continue
		}
		result.Rewritten = append(result.Rewritten, path)
		observability.FixerFilesTotal.WithLabelValues("success").Inc()
	}

	result.Err = merr.ErrorOrNil()
	observability.EndSpanWithError(span, result.Err)
	return result
}

func (f *Fixer) regenerateFile(ctx context.Context, path string, mapping map[string]string, result *Result) error {
	if err := f.store.Writable(ctx, path); err != nil {
		return err
	}
	data, err := f.store.ReadAll(ctx, path)
	if err != nil {
		return err
	}

	var subs []Substitution
	seen := make(map[string]struct{})
	out := guidRegex.ReplaceAllStringFunc(string(data), func(match string) string {
		old := solution.NormalizeGUID(match)
		if solution.IsKnownProjectType(old) {
			return match
		}
		fresh, ok := mapping[old]
		if !ok {
			fresh = solution.NormalizeGUID(f.newGUID())
			mapping[old] = fresh
		}
		if _, ok := seen[old]; !ok {
			seen[old] = struct{}{}
			subs = append(subs, Substitution{File: path, OldGUID: old, NewGUID: fresh})
		}
		return strings.Trim(fresh, "{}")
	})

	if err := f.store.WriteAll(ctx, path, []byte(out)); err != nil {
		return err
	}
	result.Substitutions = append(result.Substitutions, subs...)
	return nil
}
