package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.False(t, cfg.RunningInProduction())
	assert.Equal(t, filepath.Join(dir, "public"), cfg.PublicPath)
	assert.Equal(t, filepath.Join(dir, "public", "builds"), cfg.BuildPath)
	assert.Equal(t, filepath.Join(dir, "storage", "assetpipe", "manifest.json"), cfg.ManifestPath)
	assert.Equal(t, []string{"js", "coffee"}, cfg.Extensions.Scripts)
	assert.Equal(t, 128, cfg.RemoteCacheSize)
	assert.Empty(t, cfg.File)
}

func TestLoadYAMLPreservesNameCase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "assetpipe.yaml", `
environment: production
public_path: web
build_path: /srv/builds
compile_remotes: true
node_paths: [node_modules]
directories:
  Bower: web/components
aliases:
  assets:
    jQuery: components/jquery/jquery.js
  filters:
    Minify:
      filter: UglifyJsFilter
      environments: [production]
      find_missing_args: true
collections:
  AdminPanel:
    - add: jQuery
    - require_tree: js
      except: [legacy.js]
      filters:
        - filter: CoffeeScriptFilter
          when: "*.coffee"
          find_missing_args: true
    - directory: css
      require: directory
      only: [app.css]
    - apply:
        filter: Minify
        only: scripts
`)

	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "assetpipe.yaml"), cfg.File)
	assert.True(t, cfg.RunningInProduction())
	assert.True(t, cfg.CompileRemotes)
	assert.Equal(t, filepath.Join(dir, "web"), cfg.PublicPath)
	assert.Equal(t, "/srv/builds", cfg.BuildPath)
	assert.Equal(t, []string{filepath.Join(dir, "node_modules")}, cfg.NodePaths)

	assert.Equal(t, "web/components", cfg.Directories["Bower"])
	assert.Equal(t, "components/jquery/jquery.js", cfg.Aliases.Assets["jQuery"])
	require.Contains(t, cfg.Aliases.Filters, "Minify")
	assert.Equal(t, "UglifyJsFilter", cfg.Aliases.Filters["Minify"].Filter)
	assert.True(t, cfg.Aliases.Filters["Minify"].FindMissingArgs)

	require.Equal(t, []string{"AdminPanel"}, cfg.CollectionNames())
	steps := cfg.Collections["AdminPanel"]
	require.Len(t, steps, 4)
	assert.Equal(t, "add", steps[0].Kind())
	assert.Equal(t, []string{"legacy.js"}, steps[1].Except)
	assert.Equal(t, "*.coffee", steps[1].Filters[0].When)
	assert.Equal(t, "directory", steps[2].Require)
	require.NotNil(t, steps[3].Apply)
	assert.Equal(t, "scripts", steps[3].Apply.Only)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "assets.toml", `
environment = "staging"
gzip = true

[directories]
Vendor = "vendor"

[[collections.Site]]
add = "app.css"

[[collections.Site]]
require_directory = "css"
`)

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.True(t, cfg.Gzip)
	assert.Equal(t, dir, cfg.ProjectDir)
	assert.Equal(t, "vendor", cfg.Directories["Vendor"])
	require.Len(t, cfg.Collections["Site"], 2)
	assert.Equal(t, "require_directory", cfg.Collections["Site"][1].Kind())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "assetpipe.yml", "environment: local\n")
	writeConfig(t, dir, ".env", "ASSETPIPE_GZIP=true\nLESS_BIN=/opt/less/bin/lessc\n")
	t.Setenv("ASSETPIPE_ENVIRONMENT", "production")
	// registered for restore, then cleared so .env can provide them
	t.Setenv("ASSETPIPE_GZIP", "")
	t.Setenv("LESS_BIN", "")
	require.NoError(t, os.Unsetenv("ASSETPIPE_GZIP"))
	require.NoError(t, os.Unsetenv("LESS_BIN"))

	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment, "process environment wins over the file")
	assert.True(t, cfg.Gzip, ".env values are visible")
	assert.Equal(t, "/opt/less/bin/lessc", os.Getenv("LESS_BIN"))

	cfg, err = Load(LoadOptions{ProjectDir: dir, Environment: "testing"})
	require.NoError(t, err)
	assert.Equal(t, "testing", cfg.Environment)
}

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "colections: {}\n",
		"wrong type":      "gzip: sometimes\n",
		"bad step key":    "collections:\n  app:\n    - ad: app.css\n",
		"two kinds":       "collections:\n  app:\n    - add: a.css\n      require_tree: css\n",
		"bad filter only": "collections:\n  app:\n    - apply: {filter: X, only: images}\n",
		"empty unknown":   "aliases:\n  assetz: {}\n",
		"style extension": "extensions:\n  styles: [css]\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "assetpipe.yaml", content)
			_, err := Load(LoadOptions{ProjectDir: dir})
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsUnknownTOMLTable(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "assets.toml", "[colections]\n")
	_, err := Load(LoadOptions{File: path})
	assert.Error(t, err)
}

func TestLoadAcceptsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "assetpipe.yaml", "")
	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"js", "coffee"}, cfg.Extensions.Scripts)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("/srv/app")
	assert.Equal(t, filepath.Join("/srv/app", "public"), cfg.PublicPath)
	cfg.Production[0] = "changed"
	assert.Equal(t, "production", Default("/srv/app").Production[0])
}
