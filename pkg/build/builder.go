/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package build writes fingerprinted collection artifacts, records them in
// the manifest, and removes artifacts the manifest no longer points at.
package build

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/fulmenhq/assetpipe/pkg/fingerprint"
	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/manifest"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
	"github.com/fulmenhq/assetpipe/pkg/safeio"
)

// ErrBuildNotRequired is returned when the compiled output matches the
// recorded fingerprint and the artifact is on disk. It is a normal outcome.
var ErrBuildNotRequired = errors.New("build not required")

// ErrUnknownCollection is returned when a named collection is not defined.
var ErrUnknownCollection = errors.New("unknown collection")

// Options configures a Builder.
type Options struct {
	// BuildPath is the artifact directory
	BuildPath string
	// Force rebuilds even when the fingerprint is unchanged
	Force bool
	// Gzip writes a .gz sibling next to each artifact
	Gzip bool
	// CompileRemotes includes remote assets in artifacts
	CompileRemotes bool
	// Workers bounds parallel collection builds (0 = NumCPU)
	Workers int
}

// Result describes one written artifact.
type Result struct {
	Collection  string
	Group       pipeline.Group
	Fingerprint string
	// Name is the artifact file name recorded in the manifest
	Name string
	// Path is the absolute artifact path
	Path   string
	Size   int
	Assets int
	Gzip   bool
}

// Builder compiles collection groups into artifacts.
type Builder struct {
	manifest *manifest.Manifest
	compiler *pipeline.Compiler
	opts     Options
}

// NewBuilder creates a builder recording into m.
func NewBuilder(m *manifest.Manifest, opts Options) *Builder {
	if opts.BuildPath == "" {
		opts.BuildPath = "."
	}
	return &Builder{
		manifest: m,
		compiler: pipeline.NewCompiler(opts.CompileRemotes),
		opts:     opts,
	}
}

// BuildPath returns the artifact directory.
func (b *Builder) BuildPath() string {
	return b.opts.BuildPath
}

// SetForce toggles unconditional rebuilds.
func (b *Builder) SetForce(force bool) {
	b.opts.Force = force
}

// ArtifactName returns <collection>-<fingerprint>.<ext>.
func ArtifactName(collection, fp string, g pipeline.Group) string {
	return fmt.Sprintf("%s-%s.%s", collection, fp, g.Extension())
}

// Build compiles a collection group and writes its artifact. The artifact
// is written before the manifest entry is published.
func (b *Builder) Build(col *pipeline.Collection, g pipeline.Group) (*Result, error) {
	name := col.Name()
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("collection name %q cannot be used as an artifact name", name)
	}

	compiled, err := b.compiler.Compile(col, g)
	if err != nil {
		return nil, err
	}

	data := compiled.Bytes()
	fp := fingerprint.Of(data)
	artifact := ArtifactName(name, fp, g)
	full := filepath.Join(b.opts.BuildPath, artifact)

	if !b.opts.Force {
		if entry, ok := b.manifest.Entry(name, g.String()); ok && entry.Fingerprint == fp && fileExists(full) {
			return nil, fmt.Errorf("%w: %s %s", ErrBuildNotRequired, name, g)
		}
	}

	if err := safeio.WriteFileAtomic(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write artifact %s: %w", artifact, err)
	}

	res := &Result{
		Collection:  name,
		Group:       g,
		Fingerprint: fp,
		Name:        artifact,
		Path:        full,
		Size:        len(data),
		Assets:      len(compiled.Assets),
	}

	if b.opts.Gzip {
		if err := writeGzip(full+".gz", data); err != nil {
			return nil, err
		}
		res.Gzip = true
	}

	b.manifest.Put(name, g.String(), manifest.Entry{Fingerprint: fp, Path: artifact})
	if err := b.manifest.Save(); err != nil {
		return nil, err
	}

	logger.Info("built collection",
		logger.String("collection", name),
		logger.String("group", g.String()),
		logger.String("artifact", artifact),
		logger.Int("assets", res.Assets))
	return res, nil
}

func writeGzip(path string, data []byte) error {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("failed to compress %s: %w", filepath.Base(path), err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress %s: %w", filepath.Base(path), err)
	}
	if err := safeio.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
