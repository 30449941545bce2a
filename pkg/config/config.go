package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fulmenhq/assetpipe/pkg/logger"
)

// FileName is the base name searched for in the project directory.
const FileName = "assetpipe"

// EnvPrefix prefixes environment overrides (ASSETPIPE_ENVIRONMENT, ...).
const EnvPrefix = "ASSETPIPE"

// Config holds all configuration for assetpipe
type Config struct {
	Environment     string            `mapstructure:"environment"`
	Production      []string          `mapstructure:"production"`
	PublicPath      string            `mapstructure:"public_path"`
	BuildPath       string            `mapstructure:"build_path"`
	BuildURL        string            `mapstructure:"build_url"`
	RouteURL        string            `mapstructure:"route_url"`
	ManifestPath    string            `mapstructure:"manifest_path"`
	CompileRemotes  bool              `mapstructure:"compile_remotes"`
	Gzip            bool              `mapstructure:"gzip"`
	Workers         int               `mapstructure:"workers"`
	RemoteCacheSize int               `mapstructure:"remote_cache_size"`
	NodePaths       []string          `mapstructure:"node_paths"`
	Directories     map[string]string `mapstructure:"directories"`
	Extensions      ExtensionsConfig  `mapstructure:"extensions"`
	Aliases         AliasesConfig     `mapstructure:"aliases"`
	Collections     map[string][]Step `mapstructure:"collections"`

	// ProjectDir is the directory relative paths are resolved against
	ProjectDir string `mapstructure:"-"`
	// File is the loaded configuration file, empty when defaults were used
	File string `mapstructure:"-"`
}

// ExtensionsConfig overrides asset classification.
type ExtensionsConfig struct {
	Scripts []string `mapstructure:"scripts" yaml:"scripts" toml:"scripts"`
}

// AliasesConfig holds asset and filter aliases.
type AliasesConfig struct {
	Assets  map[string]string     `mapstructure:"assets" yaml:"assets" toml:"assets"`
	Filters map[string]FilterSpec `mapstructure:"filters" yaml:"filters" toml:"filters"`
}

var defaultConfig = Config{
	Environment:     "local",
	Production:      []string{"production", "prod"},
	PublicPath:      "public",
	BuildURL:        "/builds",
	RouteURL:        "/assetpipe",
	ManifestPath:    filepath.Join("storage", "assetpipe", "manifest.json"),
	CompileRemotes:  false,
	Gzip:            false,
	Workers:         0,
	RemoteCacheSize: 128,
	NodePaths:       []string{},
	Extensions: ExtensionsConfig{
		Scripts: []string{"js", "coffee"},
	},
}

// Default returns the built-in configuration rooted at projectDir.
func Default(projectDir string) *Config {
	c := defaultConfig
	c.Production = append([]string(nil), defaultConfig.Production...)
	c.Extensions.Scripts = append([]string(nil), defaultConfig.Extensions.Scripts...)
	c.ProjectDir = projectDir
	c.resolvePaths()
	return &c
}

// LoadOptions select where configuration comes from.
type LoadOptions struct {
	// ProjectDir is searched for assetpipe.{yaml,yml,json,toml} and .env
	ProjectDir string
	// File is an explicit configuration file; it overrides the search
	File string
	// Environment overrides the configured application environment
	Environment string
}

// Load reads configuration from the project's .env, configuration file and
// ASSETPIPE_* environment variables, validates it against the embedded
// schema, and resolves relative paths.
func Load(opts LoadOptions) (*Config, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		if opts.File != "" {
			projectDir = filepath.Dir(opts.File)
		} else {
			projectDir = "."
		}
	}
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	projectDir = abs

	if err := loadDotEnv(projectDir); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(projectDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
		logger.Debug("no configuration file found, using defaults", logger.String("dir", projectDir))
	}

	// validated as written; viper settings omit empty maps
	if used := v.ConfigFileUsed(); used != "" {
		doc, err := readDocument(used)
		if err != nil {
			return nil, err
		}
		if err := ValidateSettings(doc); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.ProjectDir = projectDir
	config.File = v.ConfigFileUsed()

	// viper folds map keys to lower case; names are case sensitive
	if config.File != "" {
		sections, err := readNamedSections(config.File)
		if err != nil {
			return nil, err
		}
		sections.applyTo(&config)
	}

	if opts.Environment != "" {
		config.Environment = opts.Environment
	}

	for name, steps := range config.Collections {
		for i, s := range steps {
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("collection %q step %d: %w", name, i+1, err)
			}
		}
	}

	config.resolvePaths()
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", defaultConfig.Environment)
	v.SetDefault("production", defaultConfig.Production)
	v.SetDefault("public_path", defaultConfig.PublicPath)
	v.SetDefault("build_path", "")
	v.SetDefault("build_url", defaultConfig.BuildURL)
	v.SetDefault("route_url", defaultConfig.RouteURL)
	v.SetDefault("manifest_path", defaultConfig.ManifestPath)
	v.SetDefault("compile_remotes", defaultConfig.CompileRemotes)
	v.SetDefault("gzip", defaultConfig.Gzip)
	v.SetDefault("workers", defaultConfig.Workers)
	v.SetDefault("remote_cache_size", defaultConfig.RemoteCacheSize)
	v.SetDefault("node_paths", defaultConfig.NodePaths)
	v.SetDefault("extensions.scripts", defaultConfig.Extensions.Scripts)
}

// loadDotEnv loads <projectDir>/.env without overriding variables that are
// already set.
func loadDotEnv(projectDir string) error {
	path := filepath.Join(projectDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("loaded environment file", logger.String("path", path))
	return nil
}

func (c *Config) resolvePaths() {
	c.PublicPath = c.abs(c.PublicPath)
	if c.BuildPath == "" {
		c.BuildPath = filepath.Join(c.PublicPath, "builds")
	} else {
		c.BuildPath = c.abs(c.BuildPath)
	}
	c.ManifestPath = c.abs(c.ManifestPath)
	for i, p := range c.NodePaths {
		c.NodePaths[i] = c.abs(p)
	}
}

func (c *Config) abs(p string) string {
	if p == "" {
		return p
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.ProjectDir, p)
}

// RunningInProduction reports whether Environment is a production name.
func (c *Config) RunningInProduction() bool {
	for _, p := range c.Production {
		if p == c.Environment {
			return true
		}
	}
	return false
}

// CollectionNames returns the declared collection names, sorted.
func (c *Config) CollectionNames() []string {
	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
