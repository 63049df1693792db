package solution

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/willibrandon/slnmerge/storage"
)

var driveLetterRegex = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// NormalizePath converts Windows-style paths to forward slash format
func NormalizePath(path string) string {
	// Convert backslashes to forward slashes
	normalized := strings.ReplaceAll(path, "\\", "/")

	// Remove duplicate slashes
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}

	return normalized
}

// isVerbatimPath reports whether a declared project path cannot be rebased
// against a directory on this machine: URLs, UNC shares and drive-rooted paths.
func isVerbatimPath(path string) bool {
	return strings.Contains(path, "://") ||
		strings.HasPrefix(path, `\\`) ||
		driveLetterRegex.MatchString(path)
}

// ResolveProjectPath resolves a declared project path against the directory
// of the solution that declares it.
func ResolveProjectPath(solutionDir, projectPath string) string {
	if projectPath == "" || isVerbatimPath(projectPath) {
		return projectPath
	}

	if storage.IsURL(solutionDir) {
		return joinURL(solutionDir, NormalizePath(projectPath))
	}

	normalized := filepath.FromSlash(NormalizePath(projectPath))
	if filepath.IsAbs(normalized) {
		return filepath.Clean(normalized)
	}

	return filepath.Clean(filepath.Join(solutionDir, normalized))
}

// DeclaredPath expresses location relative to solutionDir in the backslash
// form used inside solution documents.
func DeclaredPath(solutionDir, location string) string {
	if isVerbatimPath(location) || !filepath.IsAbs(location) {
		return location
	}

	rel, err := filepath.Rel(solutionDir, location)
	if err != nil {
		return strings.ReplaceAll(filepath.ToSlash(location), "/", `\`)
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`)
}

// splitURL cuts a URL into its scheme and host prefix and its slash path.
func splitURL(u string) (prefix, p string) {
	i := strings.Index(u, "://") + len("://")
	j := strings.Index(u[i:], "/")
	if j < 0 {
		return u, "/"
	}
	return u[:i+j], u[i+j:]
}

// urlDir returns the parent of a URL, keeping its scheme and host.
func urlDir(u string) string {
	prefix, p := splitURL(u)
	return prefix + strings.TrimSuffix(path.Dir(p), "/")
}

func urlBase(u string) string {
	_, p := splitURL(u)
	return path.Base(p)
}

// joinURL resolves a slash path against a URL directory. ".." never climbs
// above the host.
func joinURL(dir, rel string) string {
	prefix, p := splitURL(dir)
	return prefix + path.Join("/", p, rel)
}
