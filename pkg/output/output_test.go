package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/assetpipe/pkg/build"
	"github.com/fulmenhq/assetpipe/pkg/manifest"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
	"github.com/fulmenhq/assetpipe/pkg/remote"
	"github.com/fulmenhq/assetpipe/pkg/transform"
)

type fixture struct {
	public   string
	builds   string
	manifest *manifest.Manifest
	env      *pipeline.Environment
	http     *remote.MockHTTPFetcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	public := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(public, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "css", "a.css"), []byte("a{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(public, "css", "b.css"), []byte("b{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(public, "css", "skip.css"), []byte("skip{}"), 0o600))

	http := remote.NewMockHTTPFetcher()
	http.AddResponse("http://cdn.example.com/reset.css", 200, "reset{}")

	filters := pipeline.NewFilterRegistry(pipeline.WithFinder(transform.FinderFunc(func(string) (string, bool) { return "", false })))
	factory := pipeline.NewAssetFactory(pipeline.FactoryConfig{
		PublicPath:  public,
		Environment: "production",
		Filters:     filters,
		Fetcher:     remote.NewClientWithFetcher(http, 4),
	})
	env := pipeline.NewEnvironment(factory, pipeline.EnvironmentOptions{})
	env.GetOrCreate("app", func(c *pipeline.Collection) {
		c.Add("http://cdn.example.com/reset.css")
		c.RequireDirectory("css")
		c.Add("css/skip.css").Ignore()
	})

	return &fixture{
		public:   public,
		builds:   filepath.Join(public, "builds"),
		manifest: manifest.New(filepath.Join(root, "manifest.json")),
		env:      env,
		http:     http,
	}
}

func (f *fixture) resolver(production bool) *Resolver {
	return NewResolver(f.env, f.manifest, Options{
		Production: production,
		BuildPath:  f.builds,
		BuildURL:   "/builds",
		Token:      "session",
	})
}

func (f *fixture) build(t *testing.T) *build.Result {
	t.Helper()
	col, _ := f.env.Get("app")
	res, err := build.NewBuilder(f.manifest, build.Options{BuildPath: f.builds}).Build(col, pipeline.Styles)
	require.NoError(t, err)
	return res
}

func TestResolveDynamicOutsideProduction(t *testing.T) {
	fx := newFixture(t)
	fx.build(t)

	res, err := fx.resolver(false).Resolve("app", pipeline.Styles)
	require.NoError(t, err)
	assert.Equal(t, Dynamic, res.Kind)
	require.Len(t, res.Assets, 3)

	assert.True(t, res.Assets[0].Remote)
	assert.Equal(t, "http://cdn.example.com/reset.css", res.Assets[0].URL)
	assert.Nil(t, res.Assets[0].Content)

	assert.Equal(t, "css/a.css", res.Assets[1].Identity)
	assert.Equal(t, "a{}", string(res.Assets[1].Content))
	assert.Equal(t, "session/app/css/a.css", res.Assets[1].Route)
	assert.Equal(t, "/assetpipe/session/app/css/a.css", res.Assets[1].URL)
}

func TestResolveStaticInProduction(t *testing.T) {
	fx := newFixture(t)
	built := fx.build(t)

	res, err := fx.resolver(true).Resolve("app", pipeline.Styles)
	require.NoError(t, err)
	assert.Equal(t, Static, res.Kind)
	assert.Equal(t, "/builds/"+built.Name, res.URL)
	assert.Equal(t, built.Path, res.Path)
}

func TestResolveFallsBackWhenArtifactMissing(t *testing.T) {
	fx := newFixture(t)
	built := fx.build(t)
	require.NoError(t, os.Remove(built.Path))

	res, err := fx.resolver(true).Resolve("app", pipeline.Styles)
	require.NoError(t, err)
	assert.Equal(t, Dynamic, res.Kind)

	res, err = fx.resolver(true).Resolve("app", pipeline.Scripts)
	require.NoError(t, err)
	assert.Equal(t, Dynamic, res.Kind, "no manifest entry")
	assert.Empty(t, res.Assets)
}

func TestResolveUnknownCollection(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.resolver(false).Resolve("missing", pipeline.Styles)
	assert.True(t, errors.Is(err, ErrUnknownCollection))
}

func TestCompileRemotesDynamically(t *testing.T) {
	fx := newFixture(t)
	r := NewResolver(fx.env, fx.manifest, Options{CompileRemotes: true, Token: "tok"})

	res, err := r.Resolve("app", pipeline.Styles)
	require.NoError(t, err)
	assert.False(t, res.Assets[0].Remote)
	assert.Equal(t, "reset{}", string(res.Assets[0].Content))
	assert.Equal(t, "/assetpipe/tok/app/http://cdn.example.com/reset.css", res.Assets[0].URL)

	content, group, err := r.CompileRoute(res.Assets[0].URL)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Styles, group)
	assert.Equal(t, "reset{}", string(content))
}

func TestRoutes(t *testing.T) {
	rt, err := ParseRoute("/tok/app/vendor/lib/x.js")
	require.NoError(t, err)
	assert.Equal(t, Route{Token: "tok", Collection: "app", Identity: "vendor/lib/x.js"}, rt)
	assert.Equal(t, "tok/app/vendor/lib/x.js", rt.String())

	for _, bad := range []string{"", "tok", "tok/app", "tok//x.js", "/app/x.js"} {
		_, err := ParseRoute(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompileRoute(t *testing.T) {
	fx := newFixture(t)
	r := fx.resolver(false)

	content, group, err := r.CompileRoute(r.Route("app", "css/b.css"))
	require.NoError(t, err)
	assert.Equal(t, pipeline.Styles, group)
	assert.Equal(t, "b{}", string(content))

	_, _, err = r.CompileRoute("other/app/css/b.css")
	assert.ErrorIs(t, err, ErrForeignRoute)

	_, _, err = r.CompileRoute(r.Route("app", "css/none.css"))
	assert.ErrorIs(t, err, ErrAssetNotFound)

	_, _, err = r.CompileRoute(r.Route("ghost", "css/b.css"))
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestCompileRouteHonoursExclusions(t *testing.T) {
	fx := newFixture(t)
	r := fx.resolver(false)

	content, _, err := r.CompileRoute(r.Route("app", "css/skip.css"))
	assert.ErrorIs(t, err, ErrAssetNotFound, "ignored assets are not served")
	assert.Nil(t, content)

	content, _, err = r.CompileRoute(r.Route("app", "http://cdn.example.com/reset.css"))
	assert.ErrorIs(t, err, ErrAssetNotFound, "remotes are linked, not compiled")
	assert.Nil(t, content)

	compiling := NewResolver(fx.env, fx.manifest, Options{CompileRemotes: true, Token: "session"})
	_, _, err = compiling.CompileRoute(compiling.Route("app", "css/skip.css"))
	assert.ErrorIs(t, err, ErrAssetNotFound)
	content, _, err = compiling.CompileRoute(compiling.Route("app", "http://cdn.example.com/reset.css"))
	require.NoError(t, err)
	assert.Equal(t, "reset{}", string(content))
}

func TestNewResolverGeneratesToken(t *testing.T) {
	fx := newFixture(t)
	a := NewResolver(fx.env, fx.manifest, Options{})
	b := NewResolver(fx.env, fx.manifest, Options{})
	assert.Len(t, a.Token(), 36)
	assert.NotEqual(t, a.Token(), b.Token())
}

func TestTags(t *testing.T) {
	fx := newFixture(t)
	built := fx.build(t)

	html, err := fx.resolver(true).Tags("app", pipeline.Styles)
	require.NoError(t, err)
	assert.Equal(t, `<link rel="stylesheet" type="text/css" href="/builds/`+built.Name+`" />`+"\n", html)

	html, err = fx.resolver(false).Tags("app", pipeline.Styles)
	require.NoError(t, err)
	assert.Contains(t, html, `href="http://cdn.example.com/reset.css"`)
	assert.Contains(t, html, `href="/assetpipe/session/app/css/a.css"`)

	scripts, err := RenderTags(&Resolution{Group: pipeline.Scripts, Kind: Static, URL: "/builds/app-x.js"})
	require.NoError(t, err)
	assert.Equal(t, `<script src="/builds/app-x.js"></script>`+"\n", scripts)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "/builds/app.css", joinURL("/builds/", "app.css"))
	assert.Equal(t, "/builds/app.css", joinURL("builds", "/app.css"))
	assert.Equal(t, "/app.css", joinURL("", "app.css"))
	assert.Equal(t, "https://cdn.example.com/app.css", joinURL("https://cdn.example.com", "app.css"))
}
