// Package solution parses, models and renders Visual Studio solution (.sln) documents.
package solution

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a solution document cannot be resolved.
var ErrNotFound = errors.New("solution not found")

// ParseError represents an unrecoverable structural defect in a solution document
type ParseError struct {
	// FilePath is the path to the file being parsed
	FilePath string

	// Line is the 1-based line number where the error occurred
	Line int

	// Message describes what went wrong
	Message string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ProjectType GUIDs for common project types
const (
	// ProjectTypeCSProject identifies a C# project (classic)
	ProjectTypeCSProject = "{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}"

	// ProjectTypeCSProjectSDK identifies a SDK-style C# project (.NET Core/.NET 5+)
	ProjectTypeCSProjectSDK = "{9A19103F-16F7-4668-BE54-9A1E7A4F7556}"

	// ProjectTypeVBProject identifies a VB.NET project
	ProjectTypeVBProject = "{F184B08F-C81C-45F6-A57F-5ABD9991F28F}"

	// ProjectTypeFSProject identifies an F# project
	ProjectTypeFSProject = "{F2A71F9B-5D33-465A-A702-920D77279786}"

	// ProjectTypeCPPProject identifies a Visual C++ project
	ProjectTypeCPPProject = "{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}"

	// ProjectTypeSolutionFolder identifies a solution folder
	ProjectTypeSolutionFolder = "{2150E333-8FDC-42A3-9474-1A3956D46DE8}"

	// ProjectTypeSharedProject identifies a shared project
	ProjectTypeSharedProject = "{D954291E-2A0B-460D-934E-DC6B0785DB48}"

	// ProjectTypeWebSite identifies a website project
	ProjectTypeWebSite = "{E24C65DC-7377-472B-9ABA-BC803B73C61A}"
)

var knownProjectTypes = map[string]struct{}{
	ProjectTypeCSProject:      {},
	ProjectTypeCSProjectSDK:   {},
	ProjectTypeVBProject:      {},
	ProjectTypeFSProject:      {},
	ProjectTypeCPPProject:     {},
	ProjectTypeSolutionFolder: {},
	ProjectTypeSharedProject:  {},
	ProjectTypeWebSite:        {},
}

// IsKnownProjectType reports whether guid is one of the well-known project type GUIDs.
// The comparison ignores case and surrounding braces.
func IsKnownProjectType(guid string) bool {
	_, ok := knownProjectTypes[NormalizeGUID(guid)]
	return ok
}

// Key is the identity of a project inside a document set: its GUID plus the
// location it resolves to. Folder locations are their declared path.
type Key struct {
	GUID     string
	Location string
}

// String renders the key for diagnostics
func (k Key) String() string {
	return k.GUID + " (" + k.Location + ")"
}

// Filter selects the projects a merge or diagnosis should consider.
// A nil Filter accepts every project.
type Filter func(Project) bool

// Accepts applies the filter, treating a nil filter as accept-all
func (f Filter) Accepts(p Project) bool {
	return f == nil || f(p)
}

// NormalizeGUID upper-cases a GUID and wraps it in braces.
func NormalizeGUID(guid string) string {
	g := strings.ToUpper(strings.TrimSpace(guid))
	g = strings.TrimPrefix(g, "{")
	g = strings.TrimSuffix(g, "}")
	return "{" + g + "}"
}

// IsProjectFile checks if a file path has a project file extension
func IsProjectFile(path string) bool {
	if path == "" {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csproj", ".vbproj", ".fsproj", ".vcxproj", ".sqlproj", ".shproj", ".proj":
		return true
	}
	return false
}

// IsSolutionFile checks if a file path has a .sln extension
func IsSolutionFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sln")
}
