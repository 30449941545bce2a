package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// SchemaVersion is the version of the embedded configuration schema.
const SchemaVersion = "1.0.0"

// Schema returns the embedded JSON schema.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// ValidateConfig validates a JSON configuration document against the
// embedded schema.
func ValidateConfig(configData []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(configData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

// ValidateSettings validates decoded settings such as viper.AllSettings().
func ValidateSettings(settings map[string]interface{}) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode configuration for validation: %w", err)
	}
	return ValidateConfig(data)
}
