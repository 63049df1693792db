package solution

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-zglob"
)

// Detector finds solution documents below a directory
type Detector struct {
	// SearchDir is the directory to search for solution files
	SearchDir string
}

// NewDetector creates a new solution file detector
func NewDetector(searchDir string) *Detector {
	if searchDir == "" {
		searchDir = "."
	}
	return &Detector{SearchDir: searchDir}
}

// DetectSolutions returns every .sln file below SearchDir, sorted, skipping
// hidden directories and build output (bin, obj, node_modules).
func (d *Detector) DetectSolutions() ([]string, error) {
	root, err := filepath.Abs(d.SearchDir)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", d.SearchDir, err)
	}

	matches, err := zglob.Glob(filepath.Join(root, "**", "*.sln"))
	if err != nil {
		return nil, fmt.Errorf("error searching for solution files: %w", err)
	}

	var found []string
	for _, match := range matches {
		rel, err := filepath.Rel(root, match)
		if err != nil || skippedDir(rel) {
			continue
		}
		found = append(found, match)
	}
	sort.Strings(found)
	return found, nil
}

func skippedDir(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, dir := range parts[:len(parts)-1] {
		if strings.HasPrefix(dir, ".") || dir == "node_modules" || dir == "bin" || dir == "obj" {
			return true
		}
	}
	return false
}

// ExpandInputs replaces each directory in paths with the solution documents
// found below it. Other entries pass through unchanged, in order.
func ExpandInputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		found, err := NewDetector(p).DetectSolutions()
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: no solution files below %s", ErrNotFound, p)
		}
		out = append(out, found...)
	}
	return out, nil
}
