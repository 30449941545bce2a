package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupStrings(t *testing.T) {
	assert.Equal(t, "scripts", Scripts.String())
	assert.Equal(t, "styles", Styles.String())
	assert.Equal(t, "js", Scripts.Extension())
	assert.Equal(t, "css", Styles.Extension())
	assert.Equal(t, "", NoGroup.Extension())
}

func TestParseGroup(t *testing.T) {
	for _, in := range []string{"scripts", "JS", "javascripts"} {
		g, err := ParseGroup(in)
		require.NoError(t, err)
		assert.Equal(t, Scripts, g, in)
	}
	for _, in := range []string{"styles", "css", "Stylesheets"} {
		g, err := ParseGroup(in)
		require.NoError(t, err)
		assert.Equal(t, Styles, g, in)
	}
	_, err := ParseGroup("images")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	ext := DefaultExtensions()
	tests := []struct {
		locator string
		want    Group
	}{
		{"app.js", Scripts},
		{"lib/app.coffee", Scripts},
		{"APP.JS", Scripts},
		{"app.css", Styles},
		{"app.less", Styles},
		{"readme", Styles},
		{"http://example.com/a.js?v=2", Scripts},
		{"//cdn.example.com/a.css", Styles},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ext.Classify(tt.locator), tt.locator)
	}

	custom := Extensions{Scripts: []string{".ts"}}
	assert.Equal(t, Scripts, custom.Classify("main.ts"))
	assert.Equal(t, Styles, custom.Classify("main.sass"), "anything not listed as a script is a style")
	assert.Equal(t, Styles, custom.Classify("main.js"))
}
