/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package manifest persists the current fingerprint and artifact path of
// every collection group.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/safeio"
)

// Entry is the recorded build of one collection group.
type Entry struct {
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Path        string `json:"path" yaml:"path"`
}

// Collection maps group names (scripts, styles) to entries.
type Collection map[string]Entry

// Document is the stored form: collection -> group -> entry.
type Document map[string]Collection

// Manifest is a mutex-guarded view of the manifest file. Save overlays the
// entries changed through this value onto whatever is stored, so builders
// of different collections do not clobber each other.
type Manifest struct {
	mu      sync.Mutex
	path    string
	entries Document
	dirty   map[string]map[string]*Entry
}

// New creates a manifest backed by path without reading it.
func New(path string) *Manifest {
	return &Manifest{
		path:    path,
		entries: Document{},
		dirty:   map[string]map[string]*Entry{},
	}
}

// Load creates a manifest and reads path. A missing file is an empty
// manifest.
func Load(path string) (*Manifest, error) {
	m := New(path)
	doc, err := read(path)
	if err != nil {
		return nil, err
	}
	m.entries = doc
	return m, nil
}

// Path returns the storage path.
func (m *Manifest) Path() string {
	return m.path
}

// Has reports whether the collection has any recorded group.
func (m *Manifest) Has(collection string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries[collection]) > 0
}

// Get returns a copy of a collection's entries.
func (m *Manifest) Get(collection string) (Collection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entries[collection]
	if !ok {
		return nil, false
	}
	out := make(Collection, len(c))
	for g, e := range c {
		out[g] = e
	}
	return out, true
}

// Entry returns the recorded entry for a collection group.
func (m *Manifest) Entry(collection, group string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[collection][group]
	return e, ok
}

// Put records an entry. It is persisted on the next Save.
func (m *Manifest) Put(collection, group string, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[collection] == nil {
		m.entries[collection] = Collection{}
	}
	m.entries[collection][group] = e
	m.markDirty(collection, group, &e)
}

// Forget removes a collection. It is persisted on the next Save.
func (m *Manifest) Forget(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	groups := m.entries[collection]
	delete(m.entries, collection)
	if m.dirty[collection] == nil {
		m.dirty[collection] = map[string]*Entry{}
	}
	for g := range groups {
		m.dirty[collection][g] = nil
	}
	// an empty marker set still removes groups stored by other processes
	m.dirty[collection][""] = nil
}

func (m *Manifest) markDirty(collection, group string, e *Entry) {
	if m.dirty[collection] == nil {
		m.dirty[collection] = map[string]*Entry{}
	}
	m.dirty[collection][group] = e
}

// Collections returns the recorded collection names, sorted.
func (m *Manifest) Collections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Document returns a copy of the in-memory state.
func (m *Manifest) Document() Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneDocument(m.entries)
}

// Snapshot reads the stored manifest without touching in-memory state.
func (m *Manifest) Snapshot() (Document, error) {
	return read(m.path)
}

// Save re-reads storage, overlays the changes made through this manifest
// and atomically replaces the file.
func (m *Manifest) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := read(m.path)
	if err != nil {
		return err
	}

	for collection, groups := range m.dirty {
		if _, forgotten := groups[""]; forgotten {
			delete(stored, collection)
		}
		for group, e := range groups {
			if group == "" {
				continue
			}
			if e == nil {
				if stored[collection] != nil {
					delete(stored[collection], group)
				}
				continue
			}
			if stored[collection] == nil {
				stored[collection] = Collection{}
			}
			stored[collection][group] = *e
		}
		if len(stored[collection]) == 0 {
			delete(stored, collection)
		}
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := safeio.WriteFileAtomic(m.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", m.path, err)
	}

	m.entries = stored
	m.dirty = map[string]map[string]*Entry{}
	logger.Debug("manifest saved", logger.String("path", m.path), logger.Int("collections", len(stored)))
	return nil
}

func read(path string) (Document, error) {
	// #nosec G304 - manifest path comes from configuration
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	if len(data) == 0 {
		return Document{}, nil
	}
	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return doc, nil
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for c, groups := range doc {
		cg := make(Collection, len(groups))
		for g, e := range groups {
			cg[g] = e
		}
		out[c] = cg
	}
	return out
}
