package safeio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanUserPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		hasError bool
	}{
		{name: "simple path", input: "app.css", expected: "app.css"},
		{name: "relative path", input: "./stylesheets/app.css", expected: "stylesheets/app.css"},
		{name: "absolute path", input: "/tmp/app.css", expected: "/tmp/app.css"},
		{name: "dots in name", input: "jquery.min.js", expected: "jquery.min.js"},
		{name: "double dots in name", input: "weird..name.js", expected: "weird..name.js"},
		{name: "traversal", input: "../../../etc/passwd", hasError: true},
		{name: "traversal in middle", input: "valid/../../../etc/passwd", hasError: true},
		{name: "parent directory", input: "..", hasError: true},
		{name: "empty path", input: "", expected: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CleanUserPath(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestContained(t *testing.T) {
	base := t.TempDir()
	assert.True(t, Contained(base, filepath.Join(base, "a", "b.css")))
	assert.True(t, Contained(base, base))
	assert.False(t, Contained(base, filepath.Join(base, "..", "other.css")))
}

func TestReadFileContained(t *testing.T) {
	base := t.TempDir()
	inside := filepath.Join(base, "inside.css")
	require.NoError(t, os.WriteFile(inside, []byte("body{}"), 0o644))

	data, err := ReadFileContained(base, inside)
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))

	outside := filepath.Join(t.TempDir(), "outside.css")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	_, err = ReadFileContained(base, outside)
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "manifest.json")

	require.NoError(t, WriteFileAtomic(target, []byte(`{"a":1}`), 0o644))
	require.NoError(t, WriteFileAtomic(target, []byte(`{"a":2}`), 0o644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
