package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// namedSections are the parts of the file keyed by user-chosen names.
type namedSections struct {
	Directories map[string]string `yaml:"directories" toml:"directories"`
	Aliases     AliasesConfig     `yaml:"aliases" toml:"aliases"`
	Collections map[string][]Step `yaml:"collections" toml:"collections"`
}

// readDocument decodes the file into generic maps for schema validation.
func readDocument(path string) (map[string]interface{}, error) {
	// #nosec G304 - configuration path chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	doc := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}

// readNamedSections decodes the file again with a case-preserving decoder.
// JSON is read as YAML.
func readNamedSections(path string) (*namedSections, error) {
	// #nosec G304 - configuration path chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	var sections namedSections
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return &sections, nil
}

func (s *namedSections) applyTo(c *Config) {
	if s.Directories != nil {
		c.Directories = s.Directories
	}
	if s.Aliases.Assets != nil {
		c.Aliases.Assets = s.Aliases.Assets
	}
	if s.Aliases.Filters != nil {
		c.Aliases.Filters = s.Aliases.Filters
	}
	if s.Collections != nil {
		c.Collections = s.Collections
	}
}
