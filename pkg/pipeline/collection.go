/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/assetpipe/pkg/logger"
)

const (
	pathPrefix = "path: "
	namePrefix = "name: "
)

// NamedDirectory is a configured search directory.
type NamedDirectory struct {
	Name string
	Path string
}

// Collection is a named bundle of assets.
type Collection struct {
	name        string
	env         *Environment
	assets      []*Asset
	identities  map[string]*Asset
	directories []*Directory
	pending     []*Directory
	filters     filterSet
	working     *Directory
}

func newCollection(name string, env *Environment) *Collection {
	return &Collection{name: name, env: env, identities: make(map[string]*Asset)}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) factory() *AssetFactory {
	return c.env.factory
}

// Add resolves name and appends the asset. The lookup order is asset
// alias, remote URL, "path: " prefix, working directory, public root,
// then a recursive search of the named directories. A name that resolves
// to nothing yields an unresolved asset that is not stored.
func (c *Collection) Add(name string) *Asset {
	path, ok := c.resolve(name)
	if !ok {
		logger.Warn("asset could not be resolved", logger.String("collection", c.name), logger.String("asset", name))
		return c.factory().Unresolved(name)
	}
	return c.store(c.factory().Make(path))
}

func (c *Collection) store(a *Asset) *Asset {
	if existing, ok := c.identities[a.Identity()]; ok {
		return existing
	}
	c.identities[a.Identity()] = a
	c.assets = append(c.assets, a)
	return a
}

func (c *Collection) resolve(name string) (string, bool) {
	if target, ok := c.env.assetAliases[name]; ok {
		name = target
	}
	if isRemoteLocator(name) {
		return name, true
	}
	if strings.HasPrefix(name, pathPrefix) {
		p := strings.TrimSpace(strings.TrimPrefix(name, pathPrefix))
		return p, fileExists(p)
	}
	if c.working != nil && c.working.Valid() {
		p := filepath.Join(c.working.Path(), filepath.FromSlash(name))
		if fileExists(p) {
			return p, true
		}
	}
	if p := c.factory().Path(name); fileExists(p) {
		return p, true
	}
	return c.searchNamedDirectories(name)
}

func (c *Collection) searchNamedDirectories(name string) (string, bool) {
	needle := strings.TrimPrefix(filepath.ToSlash(name), "/")
	for _, nd := range c.env.directories {
		root := c.directoryPath(nd.Path)
		if !dirExists(root) {
			continue
		}
		var found string
		_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return nil
			}
			slashed := filepath.ToSlash(path)
			if slashed == needle || strings.HasSuffix(slashed, "/"+needle) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// directoryPath honours "path: " and otherwise roots the path at the
// public directory.
func (c *Collection) directoryPath(p string) string {
	if strings.HasPrefix(p, pathPrefix) {
		return filepath.Clean(strings.TrimSpace(strings.TrimPrefix(p, pathPrefix)))
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return c.factory().Path(p)
}

// ParseDirectoryPath turns "name: <alias>", "path: <abs>" or a path
// relative to the public root into a Directory. Paths that do not exist
// become invalid placeholders.
func (c *Collection) ParseDirectoryPath(p string) *Directory {
	target := p
	if strings.HasPrefix(p, namePrefix) {
		alias := strings.TrimSpace(strings.TrimPrefix(p, namePrefix))
		found := false
		for _, nd := range c.env.directories {
			if nd.Name == alias {
				target = nd.Path
				found = true
				break
			}
		}
		if !found {
			return invalidDirectory(p, c.factory())
		}
	}
	full := c.directoryPath(target)
	if !dirExists(full) {
		return invalidDirectory(p, c.factory())
	}
	return newDirectory(full, c.factory())
}

// Directory runs fn with path as the working directory. Names added inside
// fn are resolved against it first. The previous working directory is
// restored afterwards.
func (c *Collection) Directory(path string, fn func(*Collection)) *Collection {
	d := c.ParseDirectoryPath(path)
	if !d.Valid() {
		logger.Warn("invalid working directory", logger.String("collection", c.name), logger.String("path", path))
		return c
	}
	previous := c.working
	c.working = d
	defer func() { c.working = previous }()
	if fn != nil {
		fn(c)
	}
	return c
}

// WorkingDirectory returns the directory set by an enclosing Directory
// call, or nil.
func (c *Collection) WorkingDirectory() *Directory {
	return c.working
}

// RequireDirectory requires the files directly inside path, or inside the
// working directory when path is omitted.
func (c *Collection) RequireDirectory(path ...string) *Directory {
	d := c.requirePath(path)
	if !d.Valid() {
		return d
	}
	return d.RequireDirectory()
}

// RequireTree requires every file below path, or below the working
// directory when path is omitted.
func (c *Collection) RequireTree(path ...string) *Directory {
	d := c.requirePath(path)
	if !d.Valid() {
		return d
	}
	return d.RequireTree()
}

func (c *Collection) requirePath(path []string) *Directory {
	var d *Directory
	switch {
	case len(path) > 0 && path[0] != "":
		d = c.ParseDirectoryPath(path[0])
	case c.working != nil && c.working.Valid():
		d = newDirectory(c.working.Path(), c.factory())
	default:
		d = invalidDirectory("", c.factory())
	}
	if !d.Valid() {
		logger.Warn("invalid path or working directory supplied", logger.String("collection", c.name), logger.String("path", d.Path()))
		return d
	}
	c.directories = append(c.directories, d)
	c.pending = append(c.pending, d)
	return d
}

// Directories returns every required directory.
func (c *Collection) Directories() []*Directory {
	return append([]*Directory(nil), c.directories...)
}

// Apply attaches a collection-wide filter.
func (c *Collection) Apply(name string, configure ...func(*Filter)) *Filter {
	f := c.factory().filters.Make(name)
	for _, fn := range configure {
		fn(f)
	}
	c.filters.put(f)
	return f
}

// ApplyFilter attaches a copy of a pre-built filter collection wide.
func (c *Collection) ApplyFilter(f *Filter) *Filter {
	cl := f.Clone()
	c.filters.put(cl)
	return cl
}

// Filters returns the collection-wide filters not yet processed.
func (c *Collection) Filters() []*Filter {
	return c.filters.list()
}

// ProcessCollection merges pending directory assets, skipping identities
// already present, then applies collection-wide filters to every asset and
// clears them. Calling it again is a no-op.
func (c *Collection) ProcessCollection() {
	for _, d := range c.pending {
		for _, a := range d.Materialize() {
			c.store(a)
		}
	}
	c.pending = nil

	if c.filters.len() == 0 {
		return
	}
	for _, a := range c.assets {
		for _, f := range c.filters.list() {
			a.ApplyFilter(f)
		}
	}
	c.filters.reset()
}

// Assets returns the processed assets of group g in order; NoGroup
// returns every group.
func (c *Collection) Assets(g Group) []*Asset {
	c.ProcessCollection()
	out := make([]*Asset, 0, len(c.assets))
	for _, a := range c.assets {
		if g == NoGroup || a.Group() == g {
			out = append(out, a)
		}
	}
	return out
}

// IgnoredAssets returns the ignored assets of group g.
func (c *Collection) IgnoredAssets(g Group) []*Asset {
	var out []*Asset
	for _, a := range c.Assets(g) {
		if a.IsIgnored() {
			out = append(out, a)
		}
	}
	return out
}

// Asset looks up an asset by identity.
func (c *Collection) Asset(identity string) (*Asset, bool) {
	c.ProcessCollection()
	a, ok := c.identities[identity]
	return a, ok
}
