package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadListFile reads a newline-delimited list of solution paths. Blank lines
// and lines starting with '#' are skipped; relative entries are resolved
// against the list file's directory.
func ReadListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return ParseList(f, filepath.Dir(abs))
}

// ParseList parses list entries from r, resolving relative entries against baseDir
func ParseList(r io.Reader, baseDir string) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) && !strings.Contains(line, "://") {
			line = filepath.Join(baseDir, filepath.FromSlash(line))
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read list: %w", err)
	}
	return paths, nil
}
