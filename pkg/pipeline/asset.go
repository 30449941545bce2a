/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package pipeline

import (
	"fmt"
	"os"

	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/transform"
)

// Asset is one source unit of a collection.
type Asset struct {
	factory  *AssetFactory
	locator  string
	identity string
	group    Group
	remote   bool
	ignored  bool
	resolved bool
	filters  filterSet
}

// Resolved reports whether the asset points at something real. The
// unresolved variant accepts every chain call and does nothing.
func (a *Asset) Resolved() bool {
	return a.resolved
}

// Locator returns the absolute path or URL.
func (a *Asset) Locator() string {
	return a.locator
}

// Identity returns the relative identity used in manifests and routes.
func (a *Asset) Identity() string {
	return a.identity
}

// Group returns the asset's group.
func (a *Asset) Group() Group {
	return a.group
}

// As overrides the group derived from the extension.
func (a *Asset) As(g Group) *Asset {
	if a.resolved && g != NoGroup {
		a.group = g
	}
	return a
}

// IsScript reports whether the asset is built into the scripts group.
func (a *Asset) IsScript() bool {
	return a.group == Scripts
}

// IsStyle reports whether the asset is built into the styles group.
func (a *Asset) IsStyle() bool {
	return a.group == Styles
}

// IsRemote reports whether the asset is fetched over HTTP.
func (a *Asset) IsRemote() bool {
	return a.remote
}

// Ignore excludes the asset from compilation. It stays listed.
func (a *Asset) Ignore() *Asset {
	if a.resolved {
		a.ignored = true
	}
	return a
}

// IsIgnored reports whether Ignore was called.
func (a *Asset) IsIgnored() bool {
	return a.ignored
}

// Apply attaches the named filter and returns it. Re-applying a name
// replaces the earlier filter in its position.
func (a *Asset) Apply(name string, configure ...func(*Filter)) *Filter {
	f := a.factory.filters.Make(name)
	for _, fn := range configure {
		fn(f)
	}
	if a.resolved {
		a.filters.put(f)
	}
	return f
}

// ApplyFilter attaches a copy of a pre-built filter and returns the copy.
func (a *Asset) ApplyFilter(f *Filter) *Filter {
	c := f.Clone()
	if a.resolved {
		a.filters.put(c)
	}
	return c
}

// Filters returns the attached filters in application order.
func (a *Asset) Filters() []*Filter {
	return a.filters.list()
}

// PrepareFilters drops filters whose restrictions exclude this asset in
// the current environment, and filters that ignored themselves.
func (a *Asset) PrepareFilters() {
	env := a.factory.environment
	for _, f := range a.filters.list() {
		switch {
		case f.IsIgnored():
		case !f.MatchesGroup(a.group):
		case !f.MatchesEnvironment(env):
		case !f.MatchesAsset(a.identity):
		default:
			continue
		}
		logger.Trace("filter not applicable", logger.String("asset", a.identity), logger.String("filter", f.Name()))
		a.filters.remove(f.Name())
	}
}

// Content reads the raw asset bytes.
func (a *Asset) Content() ([]byte, error) {
	if !a.resolved {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedAsset, a.locator)
	}
	if a.remote {
		if a.factory.fetcher == nil {
			return nil, fmt.Errorf("no remote fetcher configured for %s", a.locator)
		}
		body, err := a.factory.fetcher.Fetch(a.locator)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", a.locator, err)
		}
		return body, nil
	}
	// #nosec G304 - locator was resolved from configured directories
	body, err := os.ReadFile(a.locator)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.identity, err)
	}
	return body, nil
}

// Compile prepares the filters, then threads the content through every
// filter that can be instantiated.
func (a *Asset) Compile() ([]byte, error) {
	if !a.resolved {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedAsset, a.locator)
	}
	a.PrepareFilters()

	transformers := make([]transform.Transformer, 0, a.filters.len())
	for _, f := range a.filters.list() {
		if t, ok := f.Instantiate(); ok {
			transformers = append(transformers, t)
		}
	}

	content, err := a.Content()
	if err != nil {
		return nil, err
	}

	out, err := transform.Chain(content, transform.Source{Locator: a.locator, Identity: a.identity}, transformers...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter %s: %w", a.identity, err)
	}
	return out, nil
}
