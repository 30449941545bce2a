/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fulmenhq/assetpipe/pkg/ignore"
	"github.com/fulmenhq/assetpipe/pkg/logger"
)

// Directory is a filesystem subtree enumerated into assets.
type Directory struct {
	path    string
	factory *AssetFactory
	assets  []*Asset
	filters filterSet
	valid   bool
	matcher *ignore.Matcher
}

func newDirectory(path string, factory *AssetFactory) *Directory {
	return &Directory{path: filepath.Clean(path), factory: factory, valid: true}
}

// invalidDirectory is the placeholder for paths that do not exist. Every
// operation on it is a no-op.
func invalidDirectory(path string, factory *AssetFactory) *Directory {
	return &Directory{path: path, factory: factory}
}

// Path returns the directory path.
func (d *Directory) Path() string {
	return d.path
}

// Valid reports whether the directory exists.
func (d *Directory) Valid() bool {
	return d.valid
}

// Err returns ErrInvalidDirectory for placeholders.
func (d *Directory) Err() error {
	if d.valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidDirectory, d.path)
}

// RequireDirectory appends the files directly inside the directory.
func (d *Directory) RequireDirectory() *Directory {
	return d.enumerate(false)
}

// RequireTree appends every file below the directory.
func (d *Directory) RequireTree() *Directory {
	return d.enumerate(true)
}

func (d *Directory) enumerate(recursive bool) *Directory {
	if !d.valid {
		return d
	}
	matcher := d.ignoreMatcher()

	if !recursive {
		entries, err := os.ReadDir(d.path)
		if err != nil {
			logger.Warn("failed to read directory", logger.String("path", d.path), logger.Err(err))
			return d
		}
		for _, entry := range entries {
			full := filepath.Join(d.path, entry.Name())
			if entry.IsDir() || matcher.IsIgnored(full) {
				continue
			}
			d.assets = append(d.assets, d.factory.Make(full))
		}
		return d
	}

	err := filepath.WalkDir(d.path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("failed to walk path", logger.String("path", path), logger.Err(err))
			return nil
		}
		if entry.IsDir() {
			if path != d.path && matcher.IsIgnoredDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.IsIgnored(path) {
			return nil
		}
		d.assets = append(d.assets, d.factory.Make(path))
		return nil
	})
	if err != nil {
		logger.Warn("failed to walk directory", logger.String("path", d.path), logger.Err(err))
	}
	return d
}

func (d *Directory) ignoreMatcher() *ignore.Matcher {
	if d.matcher != nil {
		return d.matcher
	}
	m, err := ignore.NewMatcher(d.path)
	if err != nil {
		logger.Warn("failed to load ignore patterns", logger.String("path", d.path), logger.Err(err))
		return nil
	}
	d.matcher = m
	return m
}

// Only keeps the assets whose absolute path is one of names, taken
// relative to the directory.
func (d *Directory) Only(names ...string) *Directory {
	return d.subset(names, true)
}

// Except drops the assets whose absolute path is one of names.
func (d *Directory) Except(names ...string) *Directory {
	return d.subset(names, false)
}

func (d *Directory) subset(names []string, keep bool) *Directory {
	if !d.valid {
		return d
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[filepath.Join(d.path, filepath.FromSlash(n))] = true
	}
	kept := d.assets[:0:0]
	for _, a := range d.assets {
		if wanted[a.Locator()] == keep {
			kept = append(kept, a)
		}
	}
	d.assets = kept
	return d
}

// Apply attaches a directory-wide filter, replayed onto every asset at
// materialization.
func (d *Directory) Apply(name string, configure ...func(*Filter)) *Filter {
	f := d.factory.filters.Make(name)
	for _, fn := range configure {
		fn(f)
	}
	if d.valid {
		d.filters.put(f)
	}
	return f
}

// ApplyFilter attaches a copy of a pre-built filter.
func (d *Directory) ApplyFilter(f *Filter) *Filter {
	c := f.Clone()
	if d.valid {
		d.filters.put(c)
	}
	return c
}

// Filters returns the directory-wide filters not yet materialized.
func (d *Directory) Filters() []*Filter {
	return d.filters.list()
}

// Assets returns the current asset list without materializing.
func (d *Directory) Assets() []*Asset {
	return append([]*Asset(nil), d.assets...)
}

// Materialize applies every directory-wide filter to every asset, clears
// the filters and returns the assets.
func (d *Directory) Materialize() []*Asset {
	for _, a := range d.assets {
		for _, f := range d.filters.list() {
			a.ApplyFilter(f)
		}
	}
	d.filters.reset()
	return d.Assets()
}
