package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/assetpipe/pkg/transform"
)

func TestFactoryIdentities(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	factory := fx.env.Factory()

	inside := factory.Make(filepath.Join(fx.public, "css", "app.css"))
	assert.Equal(t, "css/app.css", inside.Identity())
	assert.True(t, inside.IsStyle())
	assert.False(t, inside.IsRemote())

	relative := factory.Make("js/app.js")
	assert.Equal(t, filepath.Join(fx.public, "js", "app.js"), relative.Locator())
	assert.Equal(t, "js/app.js", relative.Identity())
	assert.True(t, relative.IsScript())

	outsideDir := t.TempDir()
	outside := factory.Make(filepath.Join(outsideDir, "vendor.js"))
	assert.Regexp(t, `^[0-9a-f]{12}/vendor\.js$`, outside.Identity())
	again := factory.Make(filepath.Join(outsideDir, "vendor.js"))
	assert.Equal(t, outside.Identity(), again.Identity())

	url := factory.Make("http://example.com/a.css")
	assert.True(t, url.IsRemote())
	assert.Equal(t, "http://example.com/a.css", url.Identity())
}

func TestFactoryIdentityIsNFC(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	decomposed := fx.env.Factory().Make("css/cafe\u0301.css")
	composed := fx.env.Factory().Make("css/caf\u00e9.css")
	assert.Equal(t, "css/caf\u00e9.css", decomposed.Identity())
	assert.Equal(t, composed.Identity(), decomposed.Identity())
}

func TestAssetApplyOverwritesInPlace(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	a := fx.env.Factory().Make(fx.write(t, "app.css", "body{}"))

	a.Apply("Upper")
	a.Apply("Suffix").SetArguments("1")
	a.Apply("Upper").OnEnvironment("production")
	a.Apply("Suffix", func(f *Filter) { f.SetArguments("2") })

	require.Equal(t, []string{"Upper", "Suffix"}, filterNames(a.Filters()))
	assert.Equal(t, []string{"production"}, a.Filters()[0].Environments())
	assert.Equal(t, []string{"2"}, a.Filters()[1].Arguments())
}

func TestAssetCompileThreadsFilters(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	a := fx.env.Factory().Make(fx.write(t, "app.css", "body{}"))
	a.Apply("Upper")
	a.Apply("Suffix").SetArguments("/*x*/")

	out, err := a.Compile()
	require.NoError(t, err)
	assert.Equal(t, "BODY{}/*x*/", string(out))
}

func TestPrepareFiltersDropsMismatchedRestrictions(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	script := fx.env.Factory().Make(fx.write(t, "app.js", "var a;"))

	script.Apply("Upper").OnlyStylesheets()
	script.Apply("Suffix").SetArguments(";").OnEnvironment("production")
	script.Apply("LessFilter").WhenAssetIs("*.less")

	out, err := script.Compile()
	require.NoError(t, err)
	assert.Equal(t, "var a;", string(out), "compiled output must be unaffected")
	assert.Empty(t, script.Filters())
}

func TestAssetCompileSkipsIgnoredFilters(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	a := fx.env.Factory().Make(fx.write(t, "app.coffee", "x = 1"))
	a.Apply("CoffeeScriptFilter").FindMissingConstructorArgs()

	out, err := a.Compile()
	require.NoError(t, err)
	assert.Equal(t, "x = 1", string(out))
}

func TestAssetCompilePropagatesTransformerErrors(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	boom := errors.New("boom")
	fx.filters.Register(Definition{
		Name: "Broken",
		New: func([]string, DefinitionOptions) (transform.Transformer, error) {
			return transform.Func(func([]byte, transform.Source) ([]byte, error) { return nil, boom }), nil
		},
	})
	a := fx.env.Factory().Make(fx.write(t, "app.css", "body{}"))
	a.Apply("Broken")

	_, err := a.Compile()
	assert.ErrorIs(t, err, boom)
}

func TestAssetContentFailures(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	missing := fx.env.Factory().Make(filepath.Join(fx.public, "gone.css"))
	_, err := missing.Compile()
	assert.Error(t, err)

	fx.http.AddResponse("http://example.com/missing.css", 404, "")
	remoteAsset := fx.env.Factory().Make("http://example.com/missing.css")
	_, err = remoteAsset.Content()
	assert.Error(t, err)
}

func TestUnresolvedAssetIsInert(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	a := fx.env.Factory().Unresolved("nope.css")

	assert.False(t, a.Resolved())
	f := a.Apply("Upper").OnlyScripts()
	assert.NotNil(t, f)
	assert.Empty(t, a.Filters())
	assert.False(t, a.Ignore().IsIgnored())
	assert.Equal(t, Styles, a.As(Scripts).Group())

	_, err := a.Compile()
	assert.ErrorIs(t, err, ErrUnresolvedAsset)
}

func TestAssetAsOverridesGroup(t *testing.T) {
	fx := newFixture(t, "local", EnvironmentOptions{})
	a := fx.env.Factory().Make(fx.write(t, "templates.html", "<p>"))
	assert.True(t, a.IsStyle())
	assert.True(t, a.As(Scripts).IsScript())
}
