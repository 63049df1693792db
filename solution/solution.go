package solution

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/willibrandon/slnmerge/storage"
)

// DefaultHeader is the banner written at the top of merged documents.
var DefaultHeader = []string{
	"Microsoft Visual Studio Solution File, Format Version 12.00",
	"# Visual Studio Version 17",
	"VisualStudioVersion = 17.3.32901.215",
	"MinimumVisualStudioVersion = 10.0.40219.1",
}

// Solution represents one solution document: a flat project list plus the
// global sections of its Global envelope.
type Solution struct {
	// Name is the document name without extension
	Name string

	// BaseDir is the absolute directory the document lives in
	BaseDir string

	// Path is the absolute path of the parsed document (empty for merge targets)
	Path string

	// RelativePath is Path relative to the root directory used while parsing
	RelativePath string

	// Text is the source text, normalized to "\n" line endings
	Text string

	// Header holds the banner lines preceding the first project
	Header []string

	Properties        *PropertiesSection
	Hierarchy         *NestedProjectsSection
	SolutionPlatforms *PlatformsSection
	ProjectPlatforms  *PlatformsSection
	Globals           *ExtensibilityGlobalsSection

	// Projects is the flat project list, unique by Key
	Projects []Project

	// OtherSections keeps global sections this package does not model
	OtherSections []RawSection

	// MissingSections names the known sections absent from the source text
	MissingSections []string

	// layout is the source order of the global sections; empty for merge
	// targets, which render in canonical order
	layout []sectionSlot

	format textFormat
}

// sectionSlot is one global section position: a known section by name, or
// an index into OtherSections.
type sectionSlot struct {
	name  string
	other int
}

// New creates an empty solution, typically used as a merge target.
func New(name, baseDir string, props *PropertiesSection) *Solution {
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}
	if props == nil {
		props = NewPropertiesSection()
	}
	return &Solution{
		Name:              name,
		BaseDir:           baseDir,
		Header:            append([]string(nil), DefaultHeader...),
		Properties:        props,
		Hierarchy:         NewNestedProjectsSection(),
		SolutionPlatforms: NewSolutionPlatformsSection(),
		ProjectPlatforms:  NewProjectPlatformsSection(),
		Globals:           NewExtensibilityGlobalsSection(),
		format:            defaultFormat,
	}
}

// InheritFormat copies the BOM and line ending conventions of other.
func (s *Solution) InheritFormat(other *Solution) {
	s.format = other.format
}

// Find returns the project with the given key.
func (s *Solution) Find(key Key) (Project, bool) {
	for _, p := range s.Projects {
		if p.Key() == key {
			return p, true
		}
	}
	return nil, false
}

// Folders returns the folder projects in list order.
func (s *Solution) Folders() []*FolderProject {
	var folders []*FolderProject
	for _, p := range s.Projects {
		if f, ok := p.(*FolderProject); ok {
			folders = append(folders, f)
		}
	}
	return folders
}

// OutputPath returns where Save writes the document.
func (s *Solution) OutputPath() string {
	return filepath.Join(s.BaseDir, s.Name+".sln")
}

// String renders the document with "\n" line endings: banner, projects,
// then the Global envelope. A parsed document keeps the section order of its
// source; anything else uses the canonical order.
func (s *Solution) String() string {
	var b strings.Builder
	for _, line := range s.Header {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, p := range s.Projects {
		b.WriteString(p.String())
	}
	b.WriteString("Global\n")

	written := make(map[string]bool, len(knownSections))
	others := make([]bool, len(s.OtherSections))
	for _, slot := range s.layout {
		if slot.name != "" {
			if !written[slot.name] {
				b.WriteString(s.knownSection(slot.name))
				written[slot.name] = true
			}
			continue
		}
		if slot.other < len(s.OtherSections) && !others[slot.other] {
			raw := s.OtherSections[slot.other]
			renderSection(&b, raw.Name, raw.Timing, raw.Rows)
			others[slot.other] = true
		}
	}
	for _, name := range knownSections {
		if !written[name] {
			b.WriteString(s.knownSection(name))
		}
	}
	for i, raw := range s.OtherSections {
		if !others[i] {
			renderSection(&b, raw.Name, raw.Timing, raw.Rows)
		}
	}

	b.WriteString("EndGlobal\n")
	return b.String()
}

func (s *Solution) knownSection(name string) string {
	switch name {
	case SectionSolutionPlatforms:
		return s.SolutionPlatforms.String()
	case SectionProjectPlatforms:
		return s.ProjectPlatforms.String()
	case SectionProperties:
		return s.Properties.String()
	case SectionNestedProjects:
		return s.Hierarchy.String()
	case SectionExtensibility:
		return s.Globals.String()
	}
	return ""
}

// Bytes renders the document with its original BOM and line endings.
func (s *Solution) Bytes() []byte {
	return s.format.encode(s.String())
}

// Save writes the rendered document to OutputPath.
func (s *Solution) Save(ctx context.Context, store storage.Store) error {
	path := s.OutputPath()
	if err := store.WriteAll(ctx, path, s.Bytes()); err != nil {
		return fmt.Errorf("failed to write solution %s: %w", path, err)
	}
	return nil
}
