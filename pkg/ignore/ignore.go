// Package ignore decides which files inside an asset directory are left out
// of enumeration, using gitignore semantics from go-git.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the per-directory ignore file honoured during enumeration.
const FileName = ".assetpipeignore"

// DefaultPatterns are always ignored.
var DefaultPatterns = []string{".git/**", "node_modules/**", ".DS_Store", FileName, ".gitignore"}

// Matcher provides gitignore-based file filtering relative to a root
type Matcher struct {
	root    string
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher for root with layered patterns:
// 1. DefaultPatterns
// 2. .gitignore files below root
// 3. root/.assetpipeignore
func NewMatcher(root string) (*Matcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var allPatterns []gitignore.Pattern
	for _, pattern := range DefaultPatterns {
		allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
	}

	if gitPatterns, err := gitignore.ReadPatterns(osfs.New(absRoot), nil); err == nil {
		allPatterns = append(allPatterns, gitPatterns...)
	}

	if patterns, err := readIgnoreFile(filepath.Join(absRoot, FileName)); err == nil {
		for _, pattern := range patterns {
			allPatterns = append(allPatterns, gitignore.ParsePattern(pattern, nil))
		}
	}

	return &Matcher{
		root:    absRoot,
		matcher: gitignore.NewMatcher(allPatterns),
	}, nil
}

// readIgnoreFile reads patterns from a text file, skipping blanks and comments
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- fixed file name under the asset root
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored checks if a file should be skipped
func (m *Matcher) IsIgnored(path string) bool {
	return m.match(path, false)
}

// IsIgnoredDir checks if a directory should be skipped during traversal
func (m *Matcher) IsIgnoredDir(path string) bool {
	return m.match(path, true)
}

func (m *Matcher) match(path string, isDir bool) bool {
	if m == nil {
		return false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.root, path)
	}
	relPath, err := filepath.Rel(m.root, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}

	pathParts := splitPath(filepath.ToSlash(relPath))
	if len(pathParts) == 0 {
		return false
	}
	return m.matcher.Match(pathParts, isDir)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return []string{}
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
