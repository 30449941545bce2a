/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package pipeline

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/transform"
)

// Filter is a named, deferred transformation attached to an asset,
// directory or collection. Restrictions are evaluated at compile time.
type Filter struct {
	name         string
	definition   *Definition
	registry     *FilterRegistry
	arguments    []string
	environments []string
	group        Group
	pattern      string
	before       []func(transform.Transformer)
	ignored      bool
}

// Name returns the resolved filter name (alias indirection applied).
func (f *Filter) Name() string {
	return f.name
}

// Arguments returns a copy of the construction arguments.
func (f *Filter) Arguments() []string {
	return append([]string(nil), f.arguments...)
}

// SetArguments replaces the construction arguments.
func (f *Filter) SetArguments(args ...string) *Filter {
	f.arguments = append([]string(nil), args...)
	return f
}

// OnEnvironment restricts the filter to one more application environment.
func (f *Filter) OnEnvironment(env string) *Filter {
	if env == "" {
		return f
	}
	for _, e := range f.environments {
		if e == env {
			return f
		}
	}
	f.environments = append(f.environments, env)
	return f
}

// OnEnvironments is OnEnvironment for several environments.
func (f *Filter) OnEnvironments(envs ...string) *Filter {
	for _, env := range envs {
		f.OnEnvironment(env)
	}
	return f
}

// Environments returns the environment restriction; empty means any.
func (f *Filter) Environments() []string {
	return append([]string(nil), f.environments...)
}

// OnlyScripts restricts the filter to script assets.
func (f *Filter) OnlyScripts() *Filter {
	f.group = Scripts
	return f
}

// OnlyStylesheets restricts the filter to style assets.
func (f *Filter) OnlyStylesheets() *Filter {
	f.group = Styles
	return f
}

// GroupRestriction returns the group restriction, NoGroup when unrestricted.
func (f *Filter) GroupRestriction() Group {
	return f.group
}

// WhenAssetIs restricts the filter to assets whose identity matches a
// doublestar pattern. A pattern without a slash matches the base name.
func (f *Filter) WhenAssetIs(pattern string) *Filter {
	f.pattern = pattern
	return f
}

// Pattern returns the identity restriction.
func (f *Filter) Pattern() string {
	return f.pattern
}

// BeforeFiltering registers a callback that receives the concrete
// transformer right after it is constructed.
func (f *Filter) BeforeFiltering(fn func(transform.Transformer)) *Filter {
	if fn != nil {
		f.before = append(f.before, fn)
	}
	return f
}

// IsIgnored reports whether the filter disabled itself during argument
// discovery.
func (f *Filter) IsIgnored() bool {
	return f.ignored
}

// MatchesGroup reports whether the group restriction admits g.
func (f *Filter) MatchesGroup(g Group) bool {
	return f.group == NoGroup || f.group == g
}

// MatchesEnvironment reports whether the environment restriction admits env.
func (f *Filter) MatchesEnvironment(env string) bool {
	if len(f.environments) == 0 {
		return true
	}
	for _, e := range f.environments {
		if e == env {
			return true
		}
	}
	return false
}

// MatchesAsset reports whether the identity restriction admits identity.
func (f *Filter) MatchesAsset(identity string) bool {
	if f.pattern == "" {
		return true
	}
	target := filepath.ToSlash(identity)
	if !strings.Contains(f.pattern, "/") {
		target = pathBase(target)
	}
	ok, err := doublestar.Match(f.pattern, target)
	if err != nil {
		logger.Warn("invalid filter asset pattern", logger.String("filter", f.name), logger.String("pattern", f.pattern), logger.Err(err))
		return false
	}
	return ok
}

// FindMissingConstructorArgs fills in the executable argument of
// definitions that need one. Lookup order: arguments already present,
// the definition's environment variable, then the executable finder.
// When nothing turns up the filter ignores itself.
func (f *Filter) FindMissingConstructorArgs() *Filter {
	if f.definition == nil || f.definition.Executable == "" {
		return f
	}
	if len(f.arguments) > 0 {
		return f
	}

	envVar := f.definition.EnvVarName()
	if value, ok := f.registry.lookupEnv(envVar); ok && strings.TrimSpace(value) != "" {
		f.arguments = []string{strings.TrimSpace(value)}
		logger.Debug("filter executable from environment", logger.String("filter", f.name), logger.String("variable", envVar))
		return f
	}

	if path, ok := f.registry.finder.Find(f.definition.Executable); ok {
		f.arguments = []string{path}
		return f
	}

	f.ignored = true
	logger.Warn("filter executable not found, filter will be skipped",
		logger.String("filter", f.name),
		logger.String("executable", f.definition.Executable),
		logger.String("variable", envVar))
	return f
}

// Instantiate constructs the transformer. It reports false, never an
// error, when the filter is ignored, unknown, or fails to construct.
// An executable filter without arguments looks its executable up first.
func (f *Filter) Instantiate() (transform.Transformer, bool) {
	if f.ignored {
		return nil, false
	}
	if f.definition == nil || f.definition.New == nil {
		logger.Warn("unknown filter skipped", logger.String("filter", f.name))
		return nil, false
	}
	if f.definition.Executable != "" && len(f.arguments) == 0 {
		if f.FindMissingConstructorArgs(); f.ignored {
			return nil, false
		}
	}

	t, err := f.definition.New(f.Arguments(), f.registry.options())
	if err != nil || t == nil {
		logger.Warn("filter could not be constructed, skipped", logger.String("filter", f.name), logger.Err(err))
		return nil, false
	}

	for _, fn := range f.before {
		fn(t)
	}
	return t, true
}

// Clone returns an independent copy sharing only the definition.
func (f *Filter) Clone() *Filter {
	c := *f
	c.arguments = append([]string(nil), f.arguments...)
	c.environments = append([]string(nil), f.environments...)
	c.before = append([]func(transform.Transformer){}, f.before...)
	return &c
}

// envVarName derives `<NAME>_BIN` from a definition name, e.g.
// CoffeeScriptFilter -> COFFEE_SCRIPT_BIN.
func envVarName(name string) string {
	base := strings.TrimSuffix(name, "Filter")
	if base == "" {
		base = name
	}
	snake := camelBoundary.ReplaceAllString(base, "${1}_${2}")
	snake = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, snake)
	return strings.ToUpper(snake) + "_BIN"
}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

func pathBase(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
