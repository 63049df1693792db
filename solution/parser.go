package solution

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/willibrandon/slnmerge/observability"
	"github.com/willibrandon/slnmerge/storage"
)

// Parser reads solution documents through a storage.Store.
type Parser struct {
	store   storage.Store
	logger  observability.Logger
	rootDir string
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithStore sets the store documents are read from
func WithStore(store storage.Store) ParserOption {
	return func(p *Parser) {
		p.store = store
	}
}

// WithLogger sets the logger
func WithLogger(logger observability.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithRootDir sets the directory relative paths are resolved against.
// Defaults to the current working directory.
func WithRootDir(dir string) ParserOption {
	return func(p *Parser) {
		p.rootDir = dir
	}
}

// NewParser creates a new solution parser
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		logger: observability.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.store == nil {
		p.store = storage.New()
	}
	if p.rootDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			p.rootDir = cwd
		}
	}
	return p
}

// Parse reads and parses the document at path
func (p *Parser) Parse(ctx context.Context, path string) (*Solution, error) {
	return p.ParseAs(ctx, path, "")
}

// ParseAs reads and parses the document at path, naming the solution name
// instead of the file's base name when name is not empty.
func (p *Parser) ParseAs(ctx context.Context, path, name string) (sln *Solution, err error) {
	ctx, span := observability.StartParseSpan(ctx, path)
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		observability.DocumentsParsedTotal.WithLabelValues(status).Inc()
		observability.EndSpanWithError(span, err)
	}()

	if !storage.IsURL(path) && !filepath.IsAbs(path) {
		path = filepath.Join(p.rootDir, path)
	}

	exists, err := p.store.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("cannot access solution %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := p.store.ReadAll(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read solution %s: %w", path, err)
	}

	sln, err = parse(data, path, name)
	if err != nil {
		return nil, err
	}

	if storage.IsURL(path) {
		sln.RelativePath = path
	} else if rel, relErr := filepath.Rel(p.rootDir, path); relErr == nil {
		sln.RelativePath = rel
	} else {
		sln.RelativePath = path
	}

	for _, missing := range sln.MissingSections {
		observability.MissingSectionsTotal.WithLabelValues(missing).Inc()
		p.logger.DebugContext(ctx, "Solution {Solution} has no {Section} section", sln.RelativePath, missing)
	}
	p.logger.DebugContext(ctx, "Parsed {Solution}: {ProjectCount} projects", sln.RelativePath, len(sln.Projects))

	return sln, nil
}

// Parse parses solution text. path names the document and anchors relative
// project paths; it is not read.
func Parse(data []byte, path string) (*Solution, error) {
	return parse(data, path, "")
}

func parse(data []byte, path, name string) (*Solution, error) {
	text, format := decodeText(data)

	if path == "" {
		path = "Solution.sln"
	}
	absPath := path
	if !storage.IsURL(path) {
		if abs, err := filepath.Abs(path); err == nil {
			absPath = abs
		}
	}
	baseDir, base := filepath.Dir(absPath), filepath.Base(absPath)
	if storage.IsURL(absPath) {
		baseDir, base = urlDir(absPath), urlBase(absPath)
	}
	if name == "" {
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	sln := &Solution{
		Name:    name,
		BaseDir: baseDir,
		Path:    absPath,
		Text:    text,
		Header:  parseHeader(text),
		format:  format,
	}

	projects, err := parseProjects(sln, text)
	if err != nil {
		return nil, err
	}
	sln.Projects = uniqueProjects(projects)

	sln.Properties = ParsePropertiesSection(text)
	sln.Hierarchy = ParseNestedProjectsSection(text)
	sln.SolutionPlatforms = ParseSolutionPlatformsSection(text)
	sln.ProjectPlatforms = ParseProjectPlatformsSection(text)
	sln.Globals = ParseExtensibilityGlobalsSection(text)
	RebuildFolderRelations(sln.Hierarchy, sln.Projects)

	present := map[string]bool{
		SectionSolutionPlatforms: sln.SolutionPlatforms.Present(),
		SectionProjectPlatforms:  sln.ProjectPlatforms.Present(),
		SectionProperties:        sln.Properties.Present(),
		SectionNestedProjects:    sln.Hierarchy.Present(),
		SectionExtensibility:     sln.Globals.Present(),
	}
	for _, name := range knownSections {
		if !present[name] {
			sln.MissingSections = append(sln.MissingSections, name)
		}
	}

	for _, raw := range scanSections(text) {
		if _, known := present[raw.Name]; known {
			sln.layout = append(sln.layout, sectionSlot{name: raw.Name})
			continue
		}
		sln.OtherSections = append(sln.OtherSections, raw)
		sln.layout = append(sln.layout, sectionSlot{other: len(sln.OtherSections) - 1})
	}

	return sln, nil
}

// parseHeader returns the banner lines that precede the first project or the
// Global envelope.
func parseHeader(text string) []string {
	var header []string
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "Global" || projectLineRegex.MatchString(trimmed) {
			break
		}
		header = append(header, line)
	}
	return header
}

func uniqueProjects(projects []Project) []Project {
	seen := make(map[Key]struct{}, len(projects))
	unique := projects[:0]
	for _, p := range projects {
		if _, dup := seen[p.Key()]; dup {
			continue
		}
		seen[p.Key()] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
