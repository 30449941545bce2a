/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package output decides, per collection group, whether to serve the
// precompiled artifact or compile assets on demand.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/manifest"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
)

// ErrUnknownCollection is returned for collections not in the environment.
var ErrUnknownCollection = errors.New("unknown collection")

// Kind tells static and dynamic resolutions apart.
type Kind int

const (
	// Static serves the fingerprinted artifact
	Static Kind = iota
	// Dynamic serves each asset compiled on demand
	Dynamic
)

func (k Kind) String() string {
	if k == Static {
		return "static"
	}
	return "dynamic"
}

// DynamicAsset is one asset of a dynamic resolution.
type DynamicAsset struct {
	Identity string
	Content  []byte
	Route    string
	// Remote assets that are not compiled keep their URL
	Remote bool
	URL    string
}

// Resolution is what to serve for a collection group.
type Resolution struct {
	Collection string
	Group      pipeline.Group
	Kind       Kind
	// URL and Path are set for static resolutions
	URL    string
	Path   string
	Assets []DynamicAsset
}

// Options configures a Resolver.
type Options struct {
	// Production selects static artifacts when available
	Production bool
	// BuildPath is the artifact directory
	BuildPath string
	// BuildURL is the public URL prefix of BuildPath
	BuildURL string
	// RouteURL is the public URL prefix of dynamic routes
	RouteURL string
	// CompileRemotes compiles remote assets instead of linking them
	CompileRemotes bool
	// Token fixes the session token; a random UUID is used when empty
	Token string
}

// DefaultRouteURL prefixes dynamic routes.
const DefaultRouteURL = "/assetpipe"

// Resolver resolves collection groups against the manifest.
type Resolver struct {
	env      *pipeline.Environment
	manifest *manifest.Manifest
	opts     Options
	token    string
}

// NewResolver creates a resolver with a fresh session token.
func NewResolver(env *pipeline.Environment, m *manifest.Manifest, opts Options) *Resolver {
	token := opts.Token
	if token == "" {
		token = uuid.NewString()
	}
	if opts.RouteURL == "" {
		opts.RouteURL = DefaultRouteURL
	}
	return &Resolver{env: env, manifest: m, opts: opts, token: token}
}

// Token returns the session token embedded in dynamic routes.
func (r *Resolver) Token() string {
	return r.token
}

// Resolve returns a static resolution when running in production with a
// manifest entry whose artifact exists, and a dynamic one otherwise.
func (r *Resolver) Resolve(collection string, g pipeline.Group) (*Resolution, error) {
	col, ok := r.env.Get(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	if r.opts.Production {
		if res, ok := r.static(collection, g); ok {
			return res, nil
		}
		logger.Debug("no usable artifact, compiling dynamically", logger.String("collection", collection), logger.String("group", g.String()))
	}
	return r.dynamic(col, g)
}

func (r *Resolver) static(collection string, g pipeline.Group) (*Resolution, bool) {
	entry, ok := r.manifest.Entry(collection, g.String())
	if !ok || entry.Path == "" {
		return nil, false
	}
	full := filepath.Join(r.opts.BuildPath, filepath.FromSlash(entry.Path))
	if st, err := os.Stat(full); err != nil || st.IsDir() {
		return nil, false
	}
	return &Resolution{
		Collection: collection,
		Group:      g,
		Kind:       Static,
		URL:        joinURL(r.opts.BuildURL, entry.Path),
		Path:       full,
	}, true
}

func (r *Resolver) dynamic(col *pipeline.Collection, g pipeline.Group) (*Resolution, error) {
	res := &Resolution{Collection: col.Name(), Group: g, Kind: Dynamic}
	for _, a := range col.Assets(g) {
		if a.IsIgnored() {
			continue
		}
		route := r.Route(col.Name(), a.Identity())
		if a.IsRemote() && !r.opts.CompileRemotes {
			res.Assets = append(res.Assets, DynamicAsset{Identity: a.Identity(), Route: route, Remote: true, URL: a.Locator()})
			continue
		}
		content, err := a.Compile()
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s in %s: %w", a.Identity(), col.Name(), err)
		}
		res.Assets = append(res.Assets, DynamicAsset{
			Identity: a.Identity(),
			Content:  content,
			Route:    route,
			URL:      joinURL(r.opts.RouteURL, route),
		})
	}
	return res, nil
}

// joinURL does not clean the result; identities of remote assets keep
// their scheme slashes.
func joinURL(base, name string) string {
	base = strings.TrimSuffix(base, "/")
	if base != "" && !strings.HasPrefix(base, "/") && !strings.Contains(base, "//") {
		base = "/" + base
	}
	return base + "/" + strings.TrimPrefix(name, "/")
}
