package solution

import (
	"regexp"
	"strings"
)

// Global section names understood by the parser
const (
	SectionSolutionPlatforms = "SolutionConfigurationPlatforms"
	SectionProjectPlatforms  = "ProjectConfigurationPlatforms"
	SectionProperties        = "SolutionProperties"
	SectionNestedProjects    = "NestedProjects"
	SectionExtensibility     = "ExtensibilityGlobals"
)

const (
	preSolution  = "preSolution"
	postSolution = "postSolution"
)

// knownSections lists the global sections in canonical render order.
var knownSections = []string{
	SectionSolutionPlatforms,
	SectionProjectPlatforms,
	SectionProperties,
	SectionNestedProjects,
	SectionExtensibility,
}

var (
	sectionHeaderRegex = regexp.MustCompile(`^GlobalSection\(([^)]+)\)\s*=\s*(\S+)$`)
	nestedPairRegex    = regexp.MustCompile(`(?i)^(\{[0-9A-F-]+\})\s*=\s*(\{[0-9A-F-]+\})$`)
)

// RawSection is a global section block as it appears in the document.
type RawSection struct {
	Name   string
	Timing string
	Rows   []string
}

// scanSections returns every complete GlobalSection block of text in document
// order. A header without its EndGlobalSection footer is ignored.
func scanSections(text string) []RawSection {
	var sections []RawSection
	var current *RawSection

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if current == nil {
			if m := sectionHeaderRegex.FindStringSubmatch(trimmed); m != nil {
				current = &RawSection{Name: m[1], Timing: m[2], Rows: []string{}}
			}
			continue
		}

		switch {
		case trimmed == "EndGlobalSection":
			sections = append(sections, *current)
			current = nil
		case sectionHeaderRegex.MatchString(trimmed):
			// Unterminated block: restart at the new header.
			m := sectionHeaderRegex.FindStringSubmatch(trimmed)
			current = &RawSection{Name: m[1], Timing: m[2], Rows: []string{}}
		case trimmed == "EndGlobal":
			current = nil
		case trimmed != "":
			current.Rows = append(current.Rows, trimmed)
		}
	}

	return sections
}

// findSection locates the first complete block with the given name.
func findSection(text, name string) (RawSection, bool) {
	for _, s := range scanSections(text) {
		if s.Name == name {
			return s, true
		}
	}
	return RawSection{}, false
}

func renderSection(b *strings.Builder, name, timing string, rows []string) {
	b.WriteString("\tGlobalSection(")
	b.WriteString(name)
	b.WriteString(") = ")
	b.WriteString(timing)
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("\t\t")
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\tEndGlobalSection\n")
}

// section holds the state shared by every typed section.
type section struct {
	name    string
	timing  string
	present bool
}

// Present reports whether the block was found in the parsed document.
func (s *section) Present() bool {
	return s.present
}

func (s *section) render(rows []string) string {
	if len(rows) == 0 && !s.present {
		return ""
	}
	var b strings.Builder
	renderSection(&b, s.name, s.timing, rows)
	return b.String()
}

// PropertiesSection is the SolutionProperties block.
type PropertiesSection struct {
	section
	rows []string
}

// NewPropertiesSection creates a properties section with the given rows.
func NewPropertiesSection(rows ...string) *PropertiesSection {
	return &PropertiesSection{
		section: section{name: SectionProperties, timing: preSolution},
		rows:    append([]string(nil), rows...),
	}
}

// ParsePropertiesSection extracts the SolutionProperties block from text.
func ParsePropertiesSection(text string) *PropertiesSection {
	s := NewPropertiesSection()
	if raw, ok := findSection(text, SectionProperties); ok {
		s.present = true
		s.timing = raw.Timing
		s.rows = raw.Rows
	}
	return s
}

// Rows returns the raw property rows.
func (s *PropertiesSection) Rows() []string {
	return append([]string(nil), s.rows...)
}

// Value returns the value of a "key = value" property row.
func (s *PropertiesSection) Value(key string) (string, bool) {
	return lookupRow(s.rows, key)
}

// Clone returns an independent copy.
func (s *PropertiesSection) Clone() *PropertiesSection {
	c := *s
	c.rows = append([]string(nil), s.rows...)
	return &c
}

func (s *PropertiesSection) String() string {
	return s.render(s.rows)
}

// PlatformsSection is a configuration matrix: an ordered set of unique rows.
// Both SolutionConfigurationPlatforms and ProjectConfigurationPlatforms use it.
type PlatformsSection struct {
	section
	lines []string
	seen  map[string]struct{}
}

func newPlatformsSection(name, timing string, lines []string) *PlatformsSection {
	s := &PlatformsSection{
		section: section{name: name, timing: timing},
		seen:    make(map[string]struct{}, len(lines)),
	}
	s.Add(lines...)
	return s
}

// NewSolutionPlatformsSection creates a SolutionConfigurationPlatforms section.
func NewSolutionPlatformsSection(lines ...string) *PlatformsSection {
	return newPlatformsSection(SectionSolutionPlatforms, preSolution, lines)
}

// NewProjectPlatformsSection creates a ProjectConfigurationPlatforms section.
func NewProjectPlatformsSection(lines ...string) *PlatformsSection {
	return newPlatformsSection(SectionProjectPlatforms, postSolution, lines)
}

func parsePlatformsSection(text string, s *PlatformsSection) *PlatformsSection {
	if raw, ok := findSection(text, s.name); ok {
		s.present = true
		s.timing = raw.Timing
		s.Add(raw.Rows...)
	}
	return s
}

// ParseSolutionPlatformsSection extracts the SolutionConfigurationPlatforms block from text.
func ParseSolutionPlatformsSection(text string) *PlatformsSection {
	return parsePlatformsSection(text, NewSolutionPlatformsSection())
}

// ParseProjectPlatformsSection extracts the ProjectConfigurationPlatforms block from text.
func ParseProjectPlatformsSection(text string) *PlatformsSection {
	return parsePlatformsSection(text, NewProjectPlatformsSection())
}

// Add appends rows that are not already present and returns how many were added.
func (s *PlatformsSection) Add(lines ...string) int {
	added := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := s.seen[line]; ok {
			continue
		}
		s.seen[line] = struct{}{}
		s.lines = append(s.lines, line)
		added++
	}
	return added
}

// Lines returns the rows in first-seen order.
func (s *PlatformsSection) Lines() []string {
	return append([]string(nil), s.lines...)
}

// Len returns the number of rows.
func (s *PlatformsSection) Len() int {
	return len(s.lines)
}

// Contains reports whether line is one of the rows.
func (s *PlatformsSection) Contains(line string) bool {
	_, ok := s.seen[strings.TrimSpace(line)]
	return ok
}

func (s *PlatformsSection) String() string {
	return s.render(s.lines)
}

// ExtensibilityGlobalsSection is the ExtensibilityGlobals key/value bag.
type ExtensibilityGlobalsSection struct {
	section
	rows []string
}

// SolutionGUIDKey is the extensibility key carrying the derived solution identifier.
const SolutionGUIDKey = "SolutionGuid"

// NewExtensibilityGlobalsSection creates an empty extensibility section.
func NewExtensibilityGlobalsSection() *ExtensibilityGlobalsSection {
	return &ExtensibilityGlobalsSection{
		section: section{name: SectionExtensibility, timing: postSolution},
	}
}

// ParseExtensibilityGlobalsSection extracts the ExtensibilityGlobals block from text.
func ParseExtensibilityGlobalsSection(text string) *ExtensibilityGlobalsSection {
	s := NewExtensibilityGlobalsSection()
	if raw, ok := findSection(text, SectionExtensibility); ok {
		s.present = true
		s.timing = raw.Timing
		s.rows = raw.Rows
	}
	return s
}

// Get returns the value stored under key.
func (s *ExtensibilityGlobalsSection) Get(key string) (string, bool) {
	return lookupRow(s.rows, key)
}

// Set stores value under key, replacing an existing entry in place.
func (s *ExtensibilityGlobalsSection) Set(key, value string) {
	row := key + " = " + value
	for i, r := range s.rows {
		if k, _, ok := splitRow(r); ok && k == key {
			s.rows[i] = row
			return
		}
	}
	s.rows = append(s.rows, row)
}

// SolutionGUID returns the derived solution identifier, if any.
func (s *ExtensibilityGlobalsSection) SolutionGUID() string {
	v, _ := s.Get(SolutionGUIDKey)
	return v
}

// SetSolutionGUID replaces the derived solution identifier.
func (s *ExtensibilityGlobalsSection) SetSolutionGUID(guid string) {
	s.Set(SolutionGUIDKey, guid)
}

func (s *ExtensibilityGlobalsSection) String() string {
	return s.render(s.rows)
}

// NestedPair is one "{child} = {parent}" row of the NestedProjects section.
type NestedPair struct {
	Child  string
	Parent string
}

// NestedProjectsSection is the folder hierarchy block. It is derived from the
// folder relations when a solution is rendered after a merge.
type NestedProjectsSection struct {
	section
	pairs []NestedPair

	// rows is the source text of a parsed block; nil for derived sections
	rows []string
}

// NewNestedProjectsSection creates a hierarchy section from pairs.
func NewNestedProjectsSection(pairs ...NestedPair) *NestedProjectsSection {
	return &NestedProjectsSection{
		section: section{name: SectionNestedProjects, timing: preSolution},
		pairs:   append([]NestedPair(nil), pairs...),
	}
}

// ParseNestedProjectsSection extracts the NestedProjects block from text.
// Rows that are not GUID pairs are rendered back but yield no relation.
func ParseNestedProjectsSection(text string) *NestedProjectsSection {
	s := NewNestedProjectsSection()
	raw, ok := findSection(text, SectionNestedProjects)
	if !ok {
		return s
	}
	s.present = true
	s.timing = raw.Timing
	s.rows = append([]string{}, raw.Rows...)
	for _, row := range raw.Rows {
		m := nestedPairRegex.FindStringSubmatch(row)
		if m == nil {
			continue
		}
		s.pairs = append(s.pairs, NestedPair{Child: NormalizeGUID(m[1]), Parent: NormalizeGUID(m[2])})
	}
	return s
}

// Pairs returns the child/parent relations in document order.
func (s *NestedProjectsSection) Pairs() []NestedPair {
	return append([]NestedPair(nil), s.pairs...)
}

// String renders a parsed block as it was written and a derived block from
// its normalized pairs.
func (s *NestedProjectsSection) String() string {
	if s.rows != nil {
		return s.render(s.rows)
	}
	rows := make([]string, 0, len(s.pairs))
	for _, p := range s.pairs {
		rows = append(rows, p.Child+" = "+p.Parent)
	}
	return s.render(rows)
}

func splitRow(row string) (key, value string, ok bool) {
	k, v, found := strings.Cut(row, "=")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}

func lookupRow(rows []string, key string) (string, bool) {
	for _, r := range rows {
		if k, v, ok := splitRow(r); ok && k == key {
			return v, true
		}
	}
	return "", false
}
