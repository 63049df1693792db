package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
	"github.com/willibrandon/slnmerge/merge"
	"github.com/willibrandon/slnmerge/solution"
)

const (
	appGUID    = "{11111111-1111-1111-1111-111111111111}"
	otherGUID  = "{22222222-2222-2222-2222-222222222222}"
	sharedGUID = "{33333333-3333-3333-3333-333333333333}"
)

type project struct {
	name, path, guid string
}

func writeSolution(t *testing.T, path string, projects ...project) {
	t.Helper()
	var b strings.Builder
	b.WriteString("\nMicrosoft Visual Studio Solution File, Format Version 12.00\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "Project(\"%s\") = \"%s\", \"%s\", \"%s\"\nEndProject\n", solution.ProjectTypeCSProjectSDK, p.name, p.path, p.guid)
	}
	b.WriteString("Global\n\tGlobalSection(SolutionConfigurationPlatforms) = preSolution\n")
	b.WriteString("\t\tDebug|Any CPU = Debug|Any CPU\n\tEndGlobalSection\n")
	b.WriteString("\tGlobalSection(ProjectConfigurationPlatforms) = postSolution\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "\t\t%s.Debug|Any CPU.ActiveCfg = Debug|Any CPU\n", p.guid)
	}
	b.WriteString("\tEndGlobalSection\nEndGlobal\n")

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// workspace lays out a/a.sln with App and b/b.sln with Other, each with its
// project file on disk. bGUID is the GUID b.sln uses for Other.
func workspace(t *testing.T, bGUID string) (root, a, b string) {
	t.Helper()
	root = t.TempDir()
	a = filepath.Join(root, "a", "a.sln")
	b = filepath.Join(root, "b", "b.sln")
	writeSolution(t, a, project{"App", `App\App.csproj`, appGUID})
	writeSolution(t, b, project{"Other", `Other\Other.csproj`, bGUID})
	writeFile(t, filepath.Join(root, "a", "App", "App.csproj"), "<ProjectGuid>"+appGUID+"</ProjectGuid>")
	writeFile(t, filepath.Join(root, "b", "Other", "Other.csproj"), "<ProjectGuid>"+bGUID+"</ProjectGuid>")
	return root, a, b
}

func testConsole() (*output.Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	console := output.NewConsole(&out, &errOut, output.VerbosityNormal)
	console.SetColors(false)
	return console, &out, &errOut
}

func mergeOptions(out string, inputs ...string) *MergeOptions {
	return &MergeOptions{
		Inputs:  inputs,
		Out:     out,
		Format:  "text",
		Nonstop: true,
		Stdin:   strings.NewReader(""),
	}
}

func TestMerge_WritesOutput(t *testing.T) {
	root, a, b := workspace(t, otherGUID)
	console, out, errOut := testConsole()
	target := filepath.Join(root, "All.sln")

	require.NoError(t, runMerge(t.Context(), console, mergeOptions(target, a, b)))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"App", "a\App\App.csproj"`)
	assert.Contains(t, text, `"Other", "b\Other\Other.csproj"`)
	assert.Contains(t, text, "Debug|Any CPU = Debug|Any CPU")
	assert.Contains(t, out.String(), "Merged solution: "+target)
	assert.Empty(t, errOut.String())
}

func TestMerge_AddsSolutionExtension(t *testing.T) {
	root, a, b := workspace(t, otherGUID)
	console, _, _ := testConsole()

	require.NoError(t, runMerge(t.Context(), console, mergeOptions(filepath.Join(root, "Combined"), a, b)))
	assert.FileExists(t, filepath.Join(root, "Combined.sln"))
}

func TestMerge_CollisionExitsWithWarnings(t *testing.T) {
	root, a, b := workspace(t, sharedGUID)
	writeSolution(t, a, project{"App", `App\App.csproj`, sharedGUID})
	console, out, errOut := testConsole()
	target := filepath.Join(root, "All.sln")

	err := runMerge(t.Context(), console, mergeOptions(target, a, b))
	require.Error(t, err)
	assert.Equal(t, ExitWarnings, ExitCode(err))
	assert.True(t, IsReported(err))

	assert.FileExists(t, target)
	assert.Contains(t, errOut.String(), "Warning: ")
	assert.Contains(t, errOut.String(), sharedGUID)
	assert.Contains(t, out.String(), "--fix")
}

func TestMerge_FixResolvesCollision(t *testing.T) {
	root, a, b := workspace(t, sharedGUID)
	writeSolution(t, a, project{"App", `App\App.csproj`, sharedGUID})
	writeFile(t, filepath.Join(root, "a", "App", "App.csproj"), "<ProjectGuid>"+sharedGUID+"</ProjectGuid>")
	console, _, errOut := testConsole()
	target := filepath.Join(root, "All.sln")

	opts := mergeOptions(target, a, b)
	opts.Fix = true
	require.NoError(t, runMerge(t.Context(), console, opts))
	assert.Empty(t, errOut.String())

	still := 0
	for _, p := range []string{
		filepath.Join(root, "a", "App", "App.csproj"),
		filepath.Join(root, "b", "Other", "Other.csproj"),
	} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		if strings.Contains(string(data), sharedGUID) {
			still++
		}
	}
	assert.Equal(t, 1, still, "exactly one project keeps the shared GUID")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), sharedGUID+"\"\n"))
}

func TestMerge_NoInputs(t *testing.T) {
	console, _, _ := testConsole()

	err := runMerge(t.Context(), console, mergeOptions(filepath.Join(t.TempDir(), "x.sln")))
	require.Error(t, err)
	assert.Equal(t, ExitFatal, ExitCode(err))
	assert.False(t, IsReported(err))
}

func TestMerge_UnwritableOutput(t *testing.T) {
	root, a, b := workspace(t, otherGUID)
	console, _, _ := testConsole()

	err := runMerge(t.Context(), console, mergeOptions(filepath.Join(root, "missing", "dir", "All.sln"), a, b))
	require.Error(t, err)
	assert.Equal(t, ExitFatal, ExitCode(err))
	assert.NoFileExists(t, filepath.Join(root, "missing", "dir", "All.sln"))
}

func TestMerge_ListFileAndDirectory(t *testing.T) {
	root, _, _ := workspace(t, otherGUID)
	list := filepath.Join(root, "solutions.txt")
	writeFile(t, list, "# inputs\na/a.sln\n")
	console, _, _ := testConsole()
	target := filepath.Join(root, "All.sln")

	opts := mergeOptions(target, filepath.Join(root, "b"))
	opts.ListFile = list
	require.NoError(t, runMerge(t.Context(), console, opts))

	merged, err := solution.NewParser().Parse(t.Context(), target)
	require.NoError(t, err)
	require.Len(t, merged.Projects, 2)
	assert.Equal(t, "Other", merged.Projects[0].Name())
	assert.Equal(t, "App", merged.Projects[1].Name())
}

func TestMerge_ExcludeFiltersProjects(t *testing.T) {
	root, a, b := workspace(t, sharedGUID)
	writeSolution(t, a, project{"App", `App\App.csproj`, sharedGUID})
	console, _, _ := testConsole()
	target := filepath.Join(root, "All.sln")

	opts := mergeOptions(target, a, b)
	opts.Exclude = []string{"**/Other/*.csproj"}
	require.NoError(t, runMerge(t.Context(), console, opts))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "App.csproj")
	assert.NotContains(t, string(data), "Other.csproj")
}

func TestMerge_EmptyResult(t *testing.T) {
	root, a, b := workspace(t, otherGUID)
	console, _, _ := testConsole()
	target := filepath.Join(root, "All.sln")

	opts := mergeOptions(target, a, b)
	opts.Exclude = []string{"**/*.csproj"}
	err := runMerge(t.Context(), console, opts)
	require.ErrorIs(t, err, merge.ErrEmptyResult)
	assert.NoFileExists(t, target)
}

func TestMerge_JSON(t *testing.T) {
	root, a, b := workspace(t, otherGUID)
	console, out, _ := testConsole()
	target := filepath.Join(root, "All.sln")

	opts := mergeOptions(target, a, b)
	opts.Format = "json"
	require.NoError(t, runMerge(t.Context(), console, opts))

	var doc output.MergeOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, output.CurrentSchemaVersion, doc.SchemaVersion)
	assert.Equal(t, target, doc.Output)
	require.Len(t, doc.Projects, 2)
	assert.Equal(t, "App", doc.Projects[0].Name)
	assert.Equal(t, `a\App\App.csproj`, doc.Projects[0].Path)
	assert.Equal(t, merge.ZeroGUID, doc.SolutionGUID)
	assert.Empty(t, doc.Warnings)
}

func TestMerge_InvalidFormat(t *testing.T) {
	console, _, _ := testConsole()
	opts := mergeOptions("x.sln", "a.sln")
	opts.Format = "xml"
	assert.Error(t, runMerge(t.Context(), console, opts))
}

func TestMerge_MetricsFile(t *testing.T) {
	root, a, b := workspace(t, otherGUID)
	console, _, _ := testConsole()
	metrics := filepath.Join(root, "metrics.prom")

	opts := mergeOptions(filepath.Join(root, "All.sln"), a, b)
	opts.MetricsFile = metrics
	require.NoError(t, runMerge(t.Context(), console, opts))

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slnmerge_merges_total")
}

func TestApplySettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "out: from-settings.sln\nexclude: [\"**/Tests/**\"]\nnonstop: true\n")
	console, _, _ := testConsole()

	cmd := NewMergeCommand(console)
	opts := &MergeOptions{Out: "merged.sln", GlobalOptions: GlobalOptions{SettingsPath: path}}
	require.NoError(t, applySettings(cmd, opts))

	assert.Equal(t, "from-settings.sln", opts.Out)
	assert.Equal(t, []string{"**/Tests/**"}, opts.Exclude)
	assert.True(t, opts.Nonstop)
	assert.False(t, opts.Fix)
}

func TestApplySettings_FlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "out: from-settings.sln\n")
	console, _, _ := testConsole()

	cmd := NewMergeCommand(console)
	require.NoError(t, cmd.Flags().Set("out", "flag.sln"))
	opts := &MergeOptions{Out: "flag.sln", GlobalOptions: GlobalOptions{SettingsPath: path}}
	require.NoError(t, applySettings(cmd, opts))

	assert.Equal(t, "flag.sln", opts.Out)
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	got, err := outputPath(filepath.Join(dir, "merged"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "merged.sln"), got)

	got, err = outputPath(filepath.Join(dir, "All.SLN"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "All.SLN"), got)

	_, err = outputPath("s3://bucket/merged.sln")
	assert.Error(t, err)
}
