package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, part := range strings.Split(filepath.ToSlash(c), "/") {
		if part == ".." {
			return "", errors.New("path traversal detected")
		}
	}
	return filepath.ToSlash(c), nil
}

// Contained reports whether target resolves to a location inside baseDir.
func Contained(baseDir, target string) bool {
	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return false
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ReadFileContained reads a file only if it is contained within baseDir.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	if !Contained(baseDir, filePath) {
		return nil, errors.New("file path is outside base directory")
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.New("failed to resolve file path")
	}
	// #nosec G304 -- containment verified above
	return os.ReadFile(filePathAbs)
}

// WriteFileAtomic writes data to a hidden temp file next to path and renames
// it over the destination, so readers observe either the old or the new
// content and never a partial write.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
