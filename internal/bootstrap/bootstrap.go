/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package bootstrap wires a loaded configuration into the pipeline,
// manifest, builder, cleaner and resolver.
package bootstrap

import (
	"fmt"

	"github.com/fulmenhq/assetpipe/pkg/build"
	"github.com/fulmenhq/assetpipe/pkg/config"
	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/manifest"
	"github.com/fulmenhq/assetpipe/pkg/output"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
	"github.com/fulmenhq/assetpipe/pkg/remote"
	"github.com/fulmenhq/assetpipe/pkg/transform"
)

// Options customize wiring, mostly for embedding programs and tests.
type Options struct {
	// Finder replaces the PATH based executable finder
	Finder transform.Finder
	// EnvLookup replaces os.LookupEnv for <NAME>_BIN variables
	EnvLookup func(string) (string, bool)
	// HTTPFetcher replaces the real HTTP transport for remote assets
	HTTPFetcher remote.HTTPFetcher
	// Definitions are registered in addition to the built-in filters
	Definitions []pipeline.Definition
}

// App is a fully wired assetpipe instance.
type App struct {
	Config      *config.Config
	Filters     *pipeline.FilterRegistry
	Environment *pipeline.Environment
	Manifest    *manifest.Manifest
	Builder     *build.Builder
	Cleaner     *build.Cleaner
	Resolver    *output.Resolver
	Remote      *remote.Client
}

// New wires cfg. Collection assembly problems are logged, not returned.
func New(cfg *config.Config, opts Options) (*App, error) {
	registryOpts := []pipeline.RegistryOption{pipeline.WithSearchPaths(cfg.NodePaths...)}
	if opts.Finder != nil {
		registryOpts = append(registryOpts, pipeline.WithFinder(opts.Finder))
	}
	if opts.EnvLookup != nil {
		registryOpts = append(registryOpts, pipeline.WithEnvLookup(opts.EnvLookup))
	}
	filters := pipeline.NewFilterRegistry(registryOpts...)
	for _, def := range opts.Definitions {
		filters.Register(def)
	}
	for name, spec := range cfg.Aliases.Filters {
		if err := registerAlias(filters, name, spec); err != nil {
			return nil, err
		}
	}

	var client *remote.Client
	if opts.HTTPFetcher != nil {
		client = remote.NewClientWithFetcher(opts.HTTPFetcher, cfg.RemoteCacheSize)
	} else {
		client = remote.NewClient(cfg.RemoteCacheSize)
	}

	factory := pipeline.NewAssetFactory(pipeline.FactoryConfig{
		PublicPath:  cfg.PublicPath,
		Environment: cfg.Environment,
		Extensions:  pipeline.Extensions{Scripts: cfg.Extensions.Scripts},
		Filters:     filters,
		Fetcher:     client,
	})
	env := pipeline.NewEnvironment(factory, pipeline.EnvironmentOptions{
		AssetAliases: cfg.Aliases.Assets,
		Directories:  cfg.Directories,
		Production:   cfg.Production,
	})

	for _, name := range cfg.CollectionNames() {
		steps := cfg.Collections[name]
		env.GetOrCreate(name, func(c *pipeline.Collection) {
			if err := config.AssembleCollection(c, steps); err != nil {
				logger.Warn("collection assembled with problems", logger.String("collection", name), logger.Err(err))
			}
		})
	}

	m, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}

	builder := build.NewBuilder(m, build.Options{
		BuildPath:      cfg.BuildPath,
		Gzip:           cfg.Gzip,
		CompileRemotes: cfg.CompileRemotes,
		Workers:        cfg.Workers,
	})
	resolver := output.NewResolver(env, m, output.Options{
		Production:     env.RunningInProduction(),
		BuildPath:      cfg.BuildPath,
		BuildURL:       cfg.BuildURL,
		RouteURL:       cfg.RouteURL,
		CompileRemotes: cfg.CompileRemotes,
	})

	logger.Debug("assetpipe wired",
		logger.String("environment", cfg.Environment),
		logger.Int("collections", len(env.Names())),
		logger.String("manifest", cfg.ManifestPath))

	return &App{
		Config:      cfg,
		Filters:     filters,
		Environment: env,
		Manifest:    m,
		Builder:     builder,
		Cleaner:     build.NewCleaner(m, cfg.BuildPath),
		Resolver:    resolver,
		Remote:      client,
	}, nil
}

// Load reads configuration and wires it.
func Load(loadOpts config.LoadOptions, opts Options) (*App, error) {
	cfg, err := config.Load(loadOpts)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts)
}

func registerAlias(filters *pipeline.FilterRegistry, name string, spec config.FilterSpec) error {
	if spec.Only != "" {
		if _, err := pipeline.ParseGroup(spec.Only); err != nil {
			return fmt.Errorf("filter alias %s: %w", name, err)
		}
	}
	if err := filters.Alias(name, spec.Filter, func(f *pipeline.Filter) {
		_ = spec.Configure(f)
	}); err != nil {
		return fmt.Errorf("filter alias %s: %w", name, err)
	}
	return nil
}
