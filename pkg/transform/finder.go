/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package transform

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fulmenhq/assetpipe/pkg/logger"
)

// Finder locates executables by their conventional name.
type Finder interface {
	Find(name string) (string, bool)
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(name string) (string, bool)

// Find calls f.
func (f FinderFunc) Find(name string) (string, bool) {
	return f(name)
}

// LocalFinder searches PATH first, then the .bin directories of the
// configured node module paths, then known shim directories.
type LocalFinder struct {
	dirs []string
}

// NewLocalFinder creates a finder. searchPaths are module directories such
// as app/assets/node_modules; their .bin subdirectories are searched.
func NewLocalFinder(searchPaths ...string) *LocalFinder {
	dirs := make([]string, 0, len(searchPaths)+4)
	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(p, ".bin"))
	}
	dirs = append(dirs, shimDirectories()...)
	return &LocalFinder{dirs: dirs}
}

// Find returns the path to the named executable.
func (f *LocalFinder) Find(name string) (string, bool) {
	if path, err := exec.LookPath(name); err == nil {
		return path, true
	}

	for _, dir := range f.dirs {
		candidate := filepath.Join(dir, name)
		if runtime.GOOS == "windows" && filepath.Ext(candidate) == "" {
			candidate += ".exe"
		}
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			logger.Debug("found executable outside PATH", logger.String("name", name), logger.String("path", candidate))
			return candidate, true
		}
	}

	return "", false
}

// shimDirectories returns directories package managers install binaries to
// that are commonly missing from PATH in CI.
func shimDirectories() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	candidates := []string{
		filepath.Join(homeDir, ".bun", "bin"),
		filepath.Join(homeDir, ".npm-global", "bin"),
		filepath.Join(homeDir, ".local", "share", "mise", "shims"),
	}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, filepath.Join(homeDir, "scoop", "shims"))
	}

	dirs := make([]string, 0, len(candidates))
	for _, dir := range candidates {
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
