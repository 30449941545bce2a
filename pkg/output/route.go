package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/assetpipe/pkg/pipeline"
)

// ErrForeignRoute is returned for routes minted by another session.
var ErrForeignRoute = errors.New("route belongs to another session")

// ErrAssetNotFound is returned for routes naming no servable asset.
var ErrAssetNotFound = errors.New("asset not found")

// Route addresses one asset of a dynamic resolution.
type Route struct {
	Token      string
	Collection string
	Identity   string
}

// String formats <token>/<collection>/<identity>.
func (rt Route) String() string {
	return rt.Token + "/" + rt.Collection + "/" + rt.Identity
}

// ParseRoute splits a route. The identity keeps any slashes it contains.
func ParseRoute(route string) (Route, error) {
	parts := strings.SplitN(strings.TrimPrefix(route, "/"), "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Route{}, fmt.Errorf("malformed route %q", route)
	}
	return Route{Token: parts[0], Collection: parts[1], Identity: parts[2]}, nil
}

// Route returns the dynamic route of an asset in this session.
func (r *Resolver) Route(collection, identity string) string {
	return Route{Token: r.token, Collection: collection, Identity: identity}.String()
}

// CompileRoute compiles the single asset a route points at. Ignored
// assets, and remote assets unless remotes are compiled, are not found.
func (r *Resolver) CompileRoute(route string) ([]byte, pipeline.Group, error) {
	rt, err := ParseRoute(strings.TrimPrefix(route, strings.TrimSuffix(r.opts.RouteURL, "/")))
	if err != nil {
		return nil, pipeline.NoGroup, err
	}
	if rt.Token != r.token {
		return nil, pipeline.NoGroup, ErrForeignRoute
	}
	col, ok := r.env.Get(rt.Collection)
	if !ok {
		return nil, pipeline.NoGroup, fmt.Errorf("%w: %s", ErrUnknownCollection, rt.Collection)
	}
	a, ok := col.Asset(rt.Identity)
	// ignored assets and uncompiled remotes are never served from a route
	if !ok || a.IsIgnored() || (a.IsRemote() && !r.opts.CompileRemotes) {
		return nil, pipeline.NoGroup, fmt.Errorf("%w: %s in %s", ErrAssetNotFound, rt.Identity, rt.Collection)
	}
	content, err := a.Compile()
	if err != nil {
		return nil, a.Group(), err
	}
	return content, a.Group(), nil
}
