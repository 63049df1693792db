package solution

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformsSection_Add(t *testing.T) {
	s := NewSolutionPlatformsSection("Debug|Any CPU = Debug|Any CPU")

	added := s.Add("Release|Any CPU = Release|Any CPU", "\t\tDebug|Any CPU = Debug|Any CPU", "")

	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"Debug|Any CPU = Debug|Any CPU", "Release|Any CPU = Release|Any CPU"}, s.Lines())
	assert.Equal(t,
		"\tGlobalSection(SolutionConfigurationPlatforms) = preSolution\n"+
			"\t\tDebug|Any CPU = Debug|Any CPU\n"+
			"\t\tRelease|Any CPU = Release|Any CPU\n"+
			"\tEndGlobalSection\n",
		s.String())
}

func TestSections_EmptyRendering(t *testing.T) {
	assert.Equal(t, "", NewProjectPlatformsSection().String())
	assert.Equal(t, "", NewNestedProjectsSection().String())

	present := ParsePropertiesSection("Global\n\tGlobalSection(SolutionProperties) = preSolution\n\tEndGlobalSection\nEndGlobal\n")
	assert.True(t, present.Present())
	assert.Equal(t, "\tGlobalSection(SolutionProperties) = preSolution\n\tEndGlobalSection\n", present.String())
}

func TestExtensibilityGlobalsSection_Set(t *testing.T) {
	s := ParseExtensibilityGlobalsSection("\tGlobalSection(ExtensibilityGlobals) = postSolution\n" +
		"\t\tSolutionGuid = {00000000-0000-0000-0000-000000000001}\n" +
		"\t\tEnterpriseTools = true\n" +
		"\tEndGlobalSection\n")

	s.SetSolutionGUID("{00000000-0000-0000-0000-000000000002}")
	s.Set("Extra", "1")

	assert.Equal(t, "{00000000-0000-0000-0000-000000000002}", s.SolutionGUID())
	v, ok := s.Get("EnterpriseTools")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.Equal(t,
		"\tGlobalSection(ExtensibilityGlobals) = postSolution\n"+
			"\t\tSolutionGuid = {00000000-0000-0000-0000-000000000002}\n"+
			"\t\tEnterpriseTools = true\n"+
			"\t\tExtra = 1\n"+
			"\tEndGlobalSection\n",
		s.String())
}

func TestParseNestedProjectsSection_NormalizesGUIDs(t *testing.T) {
	s := ParseNestedProjectsSection("\tGlobalSection(NestedProjects) = preSolution\n" +
		"\t\t{aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa} = {bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb}\n" +
		"\t\tgarbage\n" +
		"\tEndGlobalSection\n")

	assert.Equal(t, []NestedPair{{
		Child:  "{AAAAAAAA-AAAA-AAAA-AAAA-AAAAAAAAAAAA}",
		Parent: "{BBBBBBBB-BBBB-BBBB-BBBB-BBBBBBBBBBBB}",
	}}, s.Pairs())
}

func TestNestedProjectsSection_StringKeepsParsedRows(t *testing.T) {
	text := "\tGlobalSection(NestedProjects) = preSolution\n" +
		"\t\t{aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa} = {bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb}\n" +
		"\tEndGlobalSection\n"
	assert.Equal(t, text, ParseNestedProjectsSection(text).String())

	derived := NewNestedProjectsSection(ParseNestedProjectsSection(text).Pairs()...)
	assert.Equal(t, "\tGlobalSection(NestedProjects) = preSolution\n"+
		"\t\t{AAAAAAAA-AAAA-AAAA-AAAA-AAAAAAAAAAAA} = {BBBBBBBB-BBBB-BBBB-BBBB-BBBBBBBBBBBB}\n"+
		"\tEndGlobalSection\n",
		derived.String())
}

func TestNormalizeGUID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{abc}", "{ABC}"},
		{"11111111-aaaa-1111-1111-111111111111", "{11111111-AAAA-1111-1111-111111111111}"},
		{" {2150e333-8fdc-42a3-9474-1a3956d46de8} ", ProjectTypeSolutionFolder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeGUID(tt.in))
	}
	assert.True(t, IsKnownProjectType("{fae04ec0-301f-11d3-bf4b-00c04f79efbc}"))
	assert.False(t, IsKnownProjectType("{11111111-1111-1111-1111-111111111111}"))
}

func TestResolveAndDeclaredPath(t *testing.T) {
	base := filepath.FromSlash("/work/repo")

	tests := []struct {
		name     string
		declared string
		want     string
	}{
		{"relative backslash", `src\App\App.csproj`, filepath.FromSlash("/work/repo/src/App/App.csproj")},
		{"parent dir", `..\shared\Lib.csproj`, filepath.FromSlash("/work/shared/Lib.csproj")},
		{"url", "http://localhost:8080/site", "http://localhost:8080/site"},
		{"drive", `C:\src\App.csproj`, `C:\src\App.csproj`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveProjectPath(base, tt.declared))
		})
	}

	assert.Equal(t, `..\repo\src\App\App.csproj`,
		DeclaredPath(filepath.FromSlash("/work/out"), filepath.FromSlash("/work/repo/src/App/App.csproj")))
	assert.Equal(t, "http://localhost:8080/site", DeclaredPath(base, "http://localhost:8080/site"))
}
