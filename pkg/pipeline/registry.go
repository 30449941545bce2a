/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package pipeline

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/fulmenhq/assetpipe/pkg/transform"
)

// Definition describes how to construct a filter's transformer.
type Definition struct {
	// Name under which the filter is applied, e.g. LessFilter
	Name string
	// Executable is the conventional binary name. When set, the first
	// construction argument is the path to that binary.
	Executable string
	// EnvVar overrides the derived <NAME>_BIN variable consulted by
	// FindMissingConstructorArgs
	EnvVar string
	// Description is shown by the envinfo command
	Description string
	// New constructs the transformer from the filter's arguments
	New func(args []string, opts DefinitionOptions) (transform.Transformer, error)
}

// EnvVarName is the variable consulted for the executable path.
func (d *Definition) EnvVarName() string {
	if d.EnvVar != "" {
		return d.EnvVar
	}
	return envVarName(d.Name)
}

// DefinitionOptions are handed to definitions at construction time.
type DefinitionOptions struct {
	// SearchPaths are node module directories (node_paths)
	SearchPaths []string
}

type alias struct {
	target    string
	configure func(*Filter)
}

// FilterRegistry holds filter definitions and aliases and makes Filters.
type FilterRegistry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	aliases     map[string]alias
	searchPaths []string
	finder      transform.Finder
	lookupEnv   func(string) (string, bool)
}

// RegistryOption configures a FilterRegistry.
type RegistryOption func(*FilterRegistry)

// WithFinder replaces the executable finder.
func WithFinder(finder transform.Finder) RegistryOption {
	return func(r *FilterRegistry) {
		if finder != nil {
			r.finder = finder
		}
	}
}

// WithSearchPaths sets the node module paths.
func WithSearchPaths(paths ...string) RegistryOption {
	return func(r *FilterRegistry) {
		r.searchPaths = append([]string(nil), paths...)
	}
}

// WithEnvLookup replaces os.LookupEnv for executable variables.
func WithEnvLookup(fn func(string) (string, bool)) RegistryOption {
	return func(r *FilterRegistry) {
		if fn != nil {
			r.lookupEnv = fn
		}
	}
}

// NewFilterRegistry creates a registry with the built-in definitions.
func NewFilterRegistry(opts ...RegistryOption) *FilterRegistry {
	r := &FilterRegistry{
		definitions: make(map[string]*Definition),
		aliases:     make(map[string]alias),
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.finder == nil {
		r.finder = transform.NewLocalFinder(r.searchPaths...)
	}
	for _, def := range builtinDefinitions() {
		r.Register(def)
	}
	return r
}

// Register adds or replaces a definition.
func (r *FilterRegistry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := def
	r.definitions[def.Name] = &d
}

// Alias makes name resolve to target. configure, if set, runs on every
// Filter made through the alias.
func (r *FilterRegistry) Alias(name, target string, configure func(*Filter)) error {
	if name == "" || target == "" {
		return fmt.Errorf("filter alias needs a name and a target")
	}
	if name == target {
		return fmt.Errorf("filter alias %q points to itself", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[name] = alias{target: target, configure: configure}
	return nil
}

// Definition returns the definition registered under name.
func (r *FilterRegistry) Definition(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.definitions[name]
	return d, ok
}

// Definitions returns all definitions sorted by name.
func (r *FilterRegistry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.definitions))
	for _, d := range r.definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Make creates a Filter for name. Alias chains are followed first.
// Unknown names still produce a Filter; it is skipped at instantiation.
func (r *FilterRegistry) Make(name string) *Filter {
	r.mu.RLock()
	var configures []func(*Filter)
	resolved := name
	seen := map[string]bool{}
	for {
		a, ok := r.aliases[resolved]
		if !ok || seen[resolved] {
			break
		}
		seen[resolved] = true
		if a.configure != nil {
			configures = append(configures, a.configure)
		}
		resolved = a.target
	}
	def := r.definitions[resolved]
	r.mu.RUnlock()

	f := &Filter{name: resolved, definition: def, registry: r}
	// innermost alias configures first so outer aliases can override
	for i := len(configures) - 1; i >= 0; i-- {
		configures[i](f)
	}
	return f
}

func (r *FilterRegistry) options() DefinitionOptions {
	return DefinitionOptions{SearchPaths: append([]string(nil), r.searchPaths...)}
}
