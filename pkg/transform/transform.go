/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/

// Package transform defines the pluggable units filters hand asset content
// to. assetpipe never implements a minifier or preprocessor itself: a
// Transformer either shells out to an external executable or is supplied by
// the embedding program.
package transform

import (
	"path/filepath"
)

// Source describes the asset a Transformer is working on.
type Source struct {
	// Locator is the absolute path or URL of the asset
	Locator string
	// Identity is the asset's relative identity within its collection
	Identity string
}

// Dir returns the directory of a local source, used as working directory
// for external tools so relative imports resolve.
func (s Source) Dir() string {
	return filepath.Dir(s.Locator)
}

// Transformer turns asset content into filtered content.
type Transformer interface {
	Transform(input []byte, src Source) ([]byte, error)
}

// Func adapts a plain function to the Transformer interface.
type Func func(input []byte, src Source) ([]byte, error)

// Transform calls f.
func (f Func) Transform(input []byte, src Source) ([]byte, error) {
	return f(input, src)
}

// Chain runs transformers in order, threading the output of each into the next.
func Chain(input []byte, src Source, transformers ...Transformer) ([]byte, error) {
	out := input
	for _, t := range transformers {
		var err error
		out, err = t.Transform(out, src)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
