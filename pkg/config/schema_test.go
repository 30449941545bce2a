package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemaIsJSON(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(Schema(), &doc))
	assert.Equal(t, "object", doc["type"])
}

func TestValidateConfig(t *testing.T) {
	valid := []string{
		`{}`,
		`{"environment": "production", "gzip": true, "workers": 4}`,
		`{"collections": {"app": [{"add": "a.css"}, {"require_tree": "js", "filters": [{"filter": "UglifyJsFilter"}]}]}}`,
		`{"aliases": {"filters": {"Minify": {"filter": "UglifyJsFilter", "only": "scripts"}}}}`,
	}
	for _, doc := range valid {
		assert.NoError(t, ValidateConfig([]byte(doc)), doc)
	}

	invalid := []string{
		`{"unknown": 1}`,
		`{"workers": -1}`,
		`{"environment": ""}`,
		`{"collections": {"app": {"add": "a.css"}}}`,
		`{"collections": {"app": [{}]}}`,
		`{"aliases": {"filters": {"Minify": {"arguments": []}}}}`,
	}
	for _, doc := range invalid {
		assert.Error(t, ValidateConfig([]byte(doc)), doc)
	}
}

func TestValidateSettings(t *testing.T) {
	assert.NoError(t, ValidateSettings(map[string]interface{}{"gzip": false}))
	assert.Error(t, ValidateSettings(map[string]interface{}{"gzip": "no"}))
}
