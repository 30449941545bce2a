package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/assetpipe/pkg/remote"
	"github.com/fulmenhq/assetpipe/pkg/transform"
)

type fixture struct {
	public  string
	env     *Environment
	filters *FilterRegistry
	http    *remote.MockHTTPFetcher
}

func newFixture(t *testing.T, appEnv string, opts EnvironmentOptions) *fixture {
	t.Helper()
	public := t.TempDir()

	filters := NewFilterRegistry(
		WithFinder(transform.FinderFunc(func(string) (string, bool) { return "", false })),
		WithEnvLookup(func(string) (string, bool) { return "", false }),
	)
	filters.Register(Definition{
		Name: "Upper",
		New: func(args []string, _ DefinitionOptions) (transform.Transformer, error) {
			return transform.Func(func(in []byte, _ transform.Source) ([]byte, error) {
				return bytes.ToUpper(in), nil
			}), nil
		},
	})
	filters.Register(Definition{
		Name: "Suffix",
		New: func(args []string, _ DefinitionOptions) (transform.Transformer, error) {
			suffix := strings.Join(args, "")
			return transform.Func(func(in []byte, _ transform.Source) ([]byte, error) {
				return append(append([]byte(nil), in...), suffix...), nil
			}), nil
		},
	})

	http := remote.NewMockHTTPFetcher()
	factory := NewAssetFactory(FactoryConfig{
		PublicPath:  public,
		Environment: appEnv,
		Filters:     filters,
		Fetcher:     remote.NewClientWithFetcher(http, 8),
	})

	return &fixture{
		public:  factory.PublicPath(),
		env:     NewEnvironment(factory, opts),
		filters: filters,
		http:    http,
	}
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	full := filepath.Join(f.public, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	return full
}

func identities(assets []*Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.Identity())
	}
	return out
}

func filterNames(filters []*Filter) []string {
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		out = append(out, f.Name())
	}
	return out
}
