package solution

import (
	"regexp"
	"strings"
)

// Project line: Project("{TYPE}") = "Name", "Path", "{GUID}"
var projectLineRegex = regexp.MustCompile(
	`^Project\("(\{[^"]*\})"\)\s*=\s*"([^"]*)"\s*,\s*"([^"]*)"\s*,\s*"(\{[^"]*\})"\s*$`,
)

// Project is an entry of a solution's flat project list: either a
// *LeafProject or a *FolderProject.
type Project interface {
	// Key returns the identity used for de-duplication
	Key() Key

	// GUID returns the normalized project GUID
	GUID() string

	// TypeGUID returns the normalized project type GUID
	TypeGUID() string

	// Name returns the declared project name
	Name() string

	// Location returns the resolved path (leaf) or the declared path (folder)
	Location() string

	// Metadata returns the raw lines between the declaration and EndProject
	Metadata() []string

	// Solution returns the owning solution, nil for synthesized projects
	Solution() *Solution

	// SetSolution re-points the owning solution
	SetSolution(s *Solution)

	// Clone returns an independent copy sharing the owner reference
	Clone() Project

	// String renders the project block, or "" when it must be omitted
	String() string
}

// declaration holds what every project block carries.
type declaration struct {
	rawType string
	name    string
	path    string
	rawGUID string
	body    []string

	owner  *Solution
	origin *Solution
}

// GUID implements Project
func (d *declaration) GUID() string {
	return NormalizeGUID(d.rawGUID)
}

// TypeGUID implements Project
func (d *declaration) TypeGUID() string {
	return NormalizeGUID(d.rawType)
}

// Name implements Project
func (d *declaration) Name() string {
	return d.name
}

// Solution implements Project
func (d *declaration) Solution() *Solution {
	return d.owner
}

// SetSolution implements Project
func (d *declaration) SetSolution(s *Solution) {
	d.owner = s
}

// Metadata returns a copy of the embedded ProjectSection lines.
func (d *declaration) Metadata() []string {
	return append([]string(nil), d.body...)
}

// HasMetadata reports whether the block carries any ProjectSection lines.
func (d *declaration) HasMetadata() bool {
	return len(d.body) > 0
}

func (d *declaration) clone() declaration {
	c := *d
	c.body = append([]string(nil), d.body...)
	return c
}

func (d *declaration) render(name, path string) string {
	var b strings.Builder
	b.WriteString(`Project("`)
	b.WriteString(d.rawType)
	b.WriteString(`") = "`)
	b.WriteString(name)
	b.WriteString(`", "`)
	b.WriteString(path)
	b.WriteString(`", "`)
	b.WriteString(d.rawGUID)
	b.WriteString("\"\n")
	for _, line := range d.body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("EndProject\n")
	return b.String()
}

// LeafProject is a buildable project referencing a project file.
type LeafProject struct {
	declaration
	location string
}

// Key implements Project
func (p *LeafProject) Key() Key {
	return Key{GUID: p.GUID(), Location: p.location}
}

// Location implements Project
func (p *LeafProject) Location() string {
	return p.location
}

// RelativePath returns the path as it would be written in the owning solution.
func (p *LeafProject) RelativePath() string {
	if p.owner == nil || p.origin == nil || p.owner.BaseDir == p.origin.BaseDir {
		return p.path
	}
	return DeclaredPath(p.owner.BaseDir, p.location)
}

// Clone implements Project
func (p *LeafProject) Clone() Project {
	return &LeafProject{declaration: p.declaration.clone(), location: p.location}
}

func (p *LeafProject) String() string {
	return p.render(p.name, p.RelativePath())
}

// FolderProject is a virtual solution folder grouping other projects.
// Children are held as keys into the owning solution's project list.
type FolderProject struct {
	declaration
	nested       []Key
	nestedSet    map[Key]struct{}
	overrideName string
}

// NewFolder synthesizes a folder that belongs to no parsed document.
func NewFolder(name, guid string) *FolderProject {
	return &FolderProject{
		declaration: declaration{
			rawType: ProjectTypeSolutionFolder,
			name:    name,
			path:    name,
			rawGUID: NormalizeGUID(guid),
		},
		nestedSet: map[Key]struct{}{},
	}
}

// Key implements Project
func (f *FolderProject) Key() Key {
	return Key{GUID: f.GUID(), Location: f.path}
}

// Location implements Project
func (f *FolderProject) Location() string {
	return f.path
}

// NestedProjects returns the child keys in insertion order.
func (f *FolderProject) NestedProjects() []Key {
	return append([]Key(nil), f.nested...)
}

// AddNested records child as nested in f. It returns false if already present.
func (f *FolderProject) AddNested(child Key) bool {
	if f.nestedSet == nil {
		f.nestedSet = map[Key]struct{}{}
	}
	if _, ok := f.nestedSet[child]; ok {
		return false
	}
	f.nestedSet[child] = struct{}{}
	f.nested = append(f.nested, child)
	return true
}

// RemoveNested drops child from f. It returns false if it was not present.
func (f *FolderProject) RemoveNested(child Key) bool {
	if _, ok := f.nestedSet[child]; !ok {
		return false
	}
	delete(f.nestedSet, child)
	for i, k := range f.nested {
		if k == child {
			f.nested = append(f.nested[:i], f.nested[i+1:]...)
			break
		}
	}
	return true
}

// HasNested reports whether child is nested in f.
func (f *FolderProject) HasNested(child Key) bool {
	_, ok := f.nestedSet[child]
	return ok
}

// IsEmpty reports whether the folder has neither children nor metadata.
func (f *FolderProject) IsEmpty() bool {
	return len(f.nested) == 0 && len(f.body) == 0
}

// DisplayName returns the override name when set, the declared name otherwise.
func (f *FolderProject) DisplayName() string {
	if f.overrideName != "" {
		return f.overrideName
	}
	return f.name
}

// SetDisplayName overrides the rendered folder name without changing identity.
func (f *FolderProject) SetDisplayName(name string) {
	f.overrideName = name
}

// Clone implements Project
func (f *FolderProject) Clone() Project {
	c := &FolderProject{
		declaration:  f.declaration.clone(),
		nested:       append([]Key(nil), f.nested...),
		nestedSet:    make(map[Key]struct{}, len(f.nested)),
		overrideName: f.overrideName,
	}
	for _, k := range f.nested {
		c.nestedSet[k] = struct{}{}
	}
	return c
}

func (f *FolderProject) String() string {
	if f.IsEmpty() {
		return ""
	}
	path := f.path
	if f.overrideName != "" && f.path == f.name {
		path = f.overrideName
	}
	return f.render(f.DisplayName(), path)
}

// parseProjects reads every Project ... EndProject block outside the Global envelope.
func parseProjects(sln *Solution, text string) ([]Project, error) {
	var projects []Project
	var current *declaration
	startLine := 0
	inGlobal := false

	for i, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)

		if current != nil {
			switch {
			case trimmed == "EndProject":
				projects = append(projects, newProject(sln, current))
				current = nil
			case projectLineRegex.MatchString(trimmed):
				return nil, &ParseError{FilePath: sln.Path, Line: startLine, Message: "missing EndProject"}
			default:
				current.body = append(current.body, line)
			}
			continue
		}

		switch {
		case trimmed == "Global":
			inGlobal = true
		case trimmed == "EndGlobal":
			inGlobal = false
		case !inGlobal:
			if m := projectLineRegex.FindStringSubmatch(trimmed); m != nil {
				current = &declaration{
					rawType: m[1],
					name:    m[2],
					path:    m[3],
					rawGUID: m[4],
					owner:   sln,
					origin:  sln,
				}
				startLine = i + 1
			}
		}
	}

	if current != nil {
		return nil, &ParseError{FilePath: sln.Path, Line: startLine, Message: "unexpected end of file: missing EndProject"}
	}

	return projects, nil
}

func newProject(sln *Solution, d *declaration) Project {
	if d.TypeGUID() == ProjectTypeSolutionFolder {
		return &FolderProject{declaration: *d, nestedSet: map[Key]struct{}{}}
	}
	return &LeafProject{declaration: *d, location: ResolveProjectPath(sln.BaseDir, d.path)}
}
