package pipeline

import (
	"sort"
	"sync"
)

// EnvironmentOptions configures an Environment.
type EnvironmentOptions struct {
	// AssetAliases map short names to asset names
	AssetAliases map[string]string
	// Directories are named search directories, searched in name order
	Directories map[string]string
	// Production lists environment names treated as production
	Production []string
}

// Environment is the registry of collections.
type Environment struct {
	mu           sync.RWMutex
	factory      *AssetFactory
	assetAliases map[string]string
	directories  []NamedDirectory
	production   []string
	collections  map[string]*Collection
	order        []string
}

// DefaultProduction are the environment names treated as production.
var DefaultProduction = []string{"production", "prod"}

// NewEnvironment creates an empty registry.
func NewEnvironment(factory *AssetFactory, opts EnvironmentOptions) *Environment {
	aliases := make(map[string]string, len(opts.AssetAliases))
	for k, v := range opts.AssetAliases {
		aliases[k] = v
	}

	names := make([]string, 0, len(opts.Directories))
	for name := range opts.Directories {
		names = append(names, name)
	}
	sort.Strings(names)
	dirs := make([]NamedDirectory, 0, len(names))
	for _, name := range names {
		dirs = append(dirs, NamedDirectory{Name: name, Path: opts.Directories[name]})
	}

	production := opts.Production
	if len(production) == 0 {
		production = DefaultProduction
	}

	return &Environment{
		factory:      factory,
		assetAliases: aliases,
		directories:  dirs,
		production:   append([]string(nil), production...),
		collections:  make(map[string]*Collection),
	}
}

// Factory returns the asset factory.
func (e *Environment) Factory() *AssetFactory {
	return e.factory
}

// Environment returns the application environment name.
func (e *Environment) Environment() string {
	return e.factory.environment
}

// RunningInProduction reports whether the application environment is one
// of the production names.
func (e *Environment) RunningInProduction() bool {
	for _, p := range e.production {
		if p == e.factory.environment {
			return true
		}
	}
	return false
}

// NamedDirectories returns the configured search directories in order.
func (e *Environment) NamedDirectories() []NamedDirectory {
	return append([]NamedDirectory(nil), e.directories...)
}

// Get returns the named collection.
func (e *Environment) Get(name string) (*Collection, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.collections[name]
	return c, ok
}

// Has reports whether a collection is registered.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// GetOrCreate returns the named collection, creating it and running fn on
// it when it does not exist yet.
func (e *Environment) GetOrCreate(name string, fn func(*Collection)) *Collection {
	e.mu.Lock()
	c, ok := e.collections[name]
	if !ok {
		c = newCollection(name, e)
		e.collections[name] = c
		e.order = append(e.order, name)
	}
	e.mu.Unlock()

	if !ok && fn != nil {
		fn(c)
	}
	return c
}

// All returns the collections in registration order.
func (e *Environment) All() []*Collection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Collection, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.collections[name])
	}
	return out
}

// Names returns the collection names in registration order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}
