package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/assetpipe/pkg/fingerprint"
	"github.com/fulmenhq/assetpipe/pkg/remote"
	"golang.org/x/text/unicode/norm"
)

// RemoteFetcher retrieves remote asset content.
type RemoteFetcher interface {
	Fetch(locator string) ([]byte, error)
}

// FactoryConfig configures an AssetFactory.
type FactoryConfig struct {
	PublicPath  string
	Environment string
	Extensions  Extensions
	Filters     *FilterRegistry
	Fetcher     RemoteFetcher
}

// AssetFactory builds assets relative to the public root.
type AssetFactory struct {
	publicPath  string
	environment string
	extensions  Extensions
	filters     *FilterRegistry
	fetcher     RemoteFetcher
}

// NewAssetFactory creates a factory. Zero values get defaults.
func NewAssetFactory(cfg FactoryConfig) *AssetFactory {
	public := cfg.PublicPath
	if public == "" {
		public = "."
	}
	if abs, err := filepath.Abs(public); err == nil {
		public = abs
	}
	ext := cfg.Extensions
	if len(ext.Scripts) == 0 {
		ext = DefaultExtensions()
	}
	filters := cfg.Filters
	if filters == nil {
		filters = NewFilterRegistry()
	}
	return &AssetFactory{
		publicPath:  filepath.Clean(public),
		environment: cfg.Environment,
		extensions:  ext,
		filters:     filters,
		fetcher:     cfg.Fetcher,
	}
}

// PublicPath returns the absolute public root.
func (f *AssetFactory) PublicPath() string {
	return f.publicPath
}

// Environment returns the application environment name.
func (f *AssetFactory) Environment() string {
	return f.environment
}

// Filters returns the filter registry.
func (f *AssetFactory) Filters() *FilterRegistry {
	return f.filters
}

// Extensions returns the classification in use.
func (f *AssetFactory) Extensions() Extensions {
	return f.extensions
}

// Path joins a path onto the public root.
func (f *AssetFactory) Path(rel string) string {
	return filepath.Join(f.publicPath, filepath.FromSlash(rel))
}

// Make builds a resolved asset for an absolute path or URL.
func (f *AssetFactory) Make(locator string) *Asset {
	a := &Asset{factory: f, resolved: true}
	if isRemoteLocator(locator) {
		a.remote = true
		a.locator = locator
		a.identity = locator
	} else {
		a.locator = f.absolutePath(locator)
		a.identity = f.RelativePath(a.locator)
	}
	a.group = f.extensions.Classify(a.locator)
	return a
}

// Unresolved builds the placeholder returned for names that resolve to
// nothing.
func (f *AssetFactory) Unresolved(name string) *Asset {
	return &Asset{factory: f, locator: name, identity: name, group: f.extensions.Classify(name)}
}

// RelativePath computes the identity of a local absolute path. Paths
// outside the public root are keyed by a short hash of their directory.
// Identities are NFC normalized so decomposed file system names compare
// equal to names written in configuration.
func (f *AssetFactory) RelativePath(abs string) string {
	if isRemoteLocator(abs) {
		return abs
	}
	rel, err := filepath.Rel(f.publicPath, abs)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return norm.NFC.String(filepath.ToSlash(rel))
	}
	dir := norm.NFC.String(filepath.ToSlash(filepath.Dir(abs)))
	return fingerprint.Short([]byte(dir)) + "/" + norm.NFC.String(filepath.Base(abs))
}

func (f *AssetFactory) absolutePath(p string) string {
	if !filepath.IsAbs(p) {
		p = f.Path(p)
	}
	return filepath.Clean(p)
}

func isRemoteLocator(s string) bool {
	return remote.IsURL(s)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func dirExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}
