package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, err)
	assert.Empty(t, m.Collections())
	assert.False(t, m.Has("app"))
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestPutSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builds", "manifest.json")
	m := New(path)
	m.Put("app", "styles", Entry{Fingerprint: "abc", Path: "app-abc.css"})
	m.Put("app", "scripts", Entry{Fingerprint: "def", Path: "app-def.js"})
	require.NoError(t, m.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	e, ok := loaded.Entry("app", "styles")
	require.True(t, ok)
	assert.Equal(t, "app-abc.css", e.Path)

	groups, ok := loaded.Get("app")
	require.True(t, ok)
	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"app"}, loaded.Collections())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fingerprint": "def"`)
}

func TestSaveOverlaysConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	first.Put("app", "styles", Entry{Fingerprint: "1", Path: "app-1.css"})
	second.Put("admin", "scripts", Entry{Fingerprint: "2", Path: "admin-2.js"})
	require.NoError(t, first.Save())
	require.NoError(t, second.Save())

	doc, err := second.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "app-1.css", doc["app"]["styles"].Path)
	assert.Equal(t, "admin-2.js", doc["admin"]["scripts"].Path)

	assert.True(t, second.Has("app"), "save refreshes in-memory state")
}

func TestForget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	writer := New(path)
	writer.Put("app", "styles", Entry{Fingerprint: "1", Path: "app-1.css"})
	writer.Put("admin", "styles", Entry{Fingerprint: "2", Path: "admin-2.css"})
	require.NoError(t, writer.Save())

	stale := New(path)
	stale.Forget("app")
	require.NoError(t, stale.Save())

	doc, err := stale.Snapshot()
	require.NoError(t, err)
	assert.NotContains(t, doc, "app")
	assert.Contains(t, doc, "admin")
}

func TestSnapshotDoesNotTouchMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := New(path)
	m.Put("app", "styles", Entry{Fingerprint: "1", Path: "app-1.css"})

	doc, err := m.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, doc)
	assert.True(t, m.Has("app"))

	copyDoc := m.Document()
	copyDoc["app"]["styles"] = Entry{}
	e, _ := m.Entry("app", "styles")
	assert.Equal(t, "1", e.Fingerprint)
}
