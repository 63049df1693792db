package output

import (
	"encoding/json"
	"io"
	"time"
)

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// MergeOutput represents the JSON output of the merge command
type MergeOutput struct {
	SchemaVersion string          `json:"schemaVersion"`
	Output        string          `json:"output"`
	Projects      []ProjectOutput `json:"projects"`
	SolutionGUID  string          `json:"solutionGuid,omitempty"`
	Warnings      []string        `json:"warnings"`
	Errors        []string        `json:"errors"`
	ElapsedMs     int64           `json:"elapsedMs"`
}

// ProjectOutput represents one merged project in JSON output
type ProjectOutput struct {
	Name   string `json:"name"`
	GUID   string `json:"guid"`
	Path   string `json:"path"`
	Folder bool   `json:"folder,omitempty"`
}

// DiagnoseOutput represents the JSON output of the diagnose command
type DiagnoseOutput struct {
	SchemaVersion string   `json:"schemaVersion"`
	Solutions     []string `json:"solutions"`
	Warnings      []string `json:"warnings"`
	ElapsedMs     int64    `json:"elapsedMs"`
}

// NewMergeOutput creates a MergeOutput with schema version and empty lists
func NewMergeOutput(out string) *MergeOutput {
	return &MergeOutput{
		SchemaVersion: CurrentSchemaVersion,
		Output:        out,
		Projects:      []ProjectOutput{},
		Warnings:      []string{},
		Errors:        []string{},
	}
}

// NewDiagnoseOutput creates a DiagnoseOutput with schema version
func NewDiagnoseOutput(solutions []string, warnings string, start time.Time) *DiagnoseOutput {
	w := Lines(warnings)
	if w == nil {
		w = []string{}
	}
	return &DiagnoseOutput{
		SchemaVersion: CurrentSchemaVersion,
		Solutions:     solutions,
		Warnings:      w,
		ElapsedMs:     MeasureElapsed(start),
	}
}

// WriteJSON writes a JSON object to the specified writer (typically stdout)
// When --format json is used, ALL JSON goes to stdout and ALL messages go to stderr
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
