/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package build

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/manifest"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
)

// Cleaner removes stale artifacts from the build directory.
type Cleaner struct {
	manifest  *manifest.Manifest
	buildPath string
	// DryRun reports what would be removed without removing it
	DryRun bool
}

// NewCleaner creates a cleaner for buildPath.
func NewCleaner(m *manifest.Manifest, buildPath string) *Cleaner {
	return &Cleaner{manifest: m, buildPath: buildPath}
}

// Clean removes artifacts of the given collections (every manifest
// collection when none are given) whose fingerprint is not the one
// currently recorded. Groups missing from the manifest are left alone.
// It returns the removed paths.
func (c *Cleaner) Clean(collections ...string) ([]string, error) {
	if len(collections) == 0 {
		doc, err := c.manifest.Snapshot()
		if err != nil {
			return nil, err
		}
		for name := range doc {
			collections = append(collections, name)
		}
		sort.Strings(collections)
	}

	var removed []string
	var errs []error
	for _, name := range collections {
		for _, g := range pipeline.Groups {
			paths, err := c.cleanGroup(name, g)
			removed = append(removed, paths...)
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return removed, errors.Join(errs...)
}

func (c *Cleaner) cleanGroup(collection string, g pipeline.Group) ([]string, error) {
	candidates, err := c.candidates(collection, g)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, path := range candidates {
		// storage is re-read per decision so a concurrent build is never
		// undercut
		doc, err := c.manifest.Snapshot()
		if err != nil {
			return removed, err
		}
		entry, ok := doc[collection][g.String()]
		if !ok || entry.Fingerprint == "" {
			return removed, nil
		}

		fp, ok := fingerprintOf(filepath.Base(path), collection, g)
		if !ok || fp == entry.Fingerprint {
			continue
		}

		if c.DryRun {
			removed = append(removed, path)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		logger.Info("removed stale artifact", logger.String("collection", collection), logger.String("path", path))
		removed = append(removed, path)
	}
	return removed, nil
}

func (c *Cleaner) candidates(collection string, g pipeline.Group) ([]string, error) {
	if _, err := os.Stat(c.buildPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	prefix := escapeMeta(collection)
	patterns := []string{
		fmt.Sprintf("%s-*.%s", prefix, g.Extension()),
		fmt.Sprintf("%s-*.%s.gz", prefix, g.Extension()),
	}
	fsys := os.DirFS(c.buildPath)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to list artifacts for %s: %w", collection, err)
		}
		for _, m := range matches {
			out = append(out, filepath.Join(c.buildPath, filepath.FromSlash(m)))
		}
	}
	sort.Strings(out)
	return out, nil
}

// escapeMeta quotes glob metacharacters so a collection name matches
// literally.
func escapeMeta(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`\*?[]{}`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fingerprintOf extracts the fingerprint segment of an artifact name. Names
// of other collections sharing the prefix (app-admin-<fp>.css for app) do
// not parse.
func fingerprintOf(base, collection string, g pipeline.Group) (string, bool) {
	base = strings.TrimSuffix(base, ".gz")
	rest := strings.TrimPrefix(base, collection+"-")
	if rest == base {
		return "", false
	}
	fp := strings.TrimSuffix(rest, "."+g.Extension())
	if fp == rest || strings.Contains(fp, "-") {
		return "", false
	}
	return fp, true
}
