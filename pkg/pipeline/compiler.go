package pipeline

import (
	"bytes"

	"github.com/fulmenhq/assetpipe/pkg/logger"
)

// CompiledAsset is the filtered output of one asset.
type CompiledAsset struct {
	Identity string
	Content  []byte
}

// CompiledGroup is the ordered output of one collection group.
type CompiledGroup struct {
	Collection string
	Group      Group
	Assets     []CompiledAsset
}

// Bytes concatenates the asset outputs with newline separators.
func (g *CompiledGroup) Bytes() []byte {
	parts := make([][]byte, 0, len(g.Assets))
	for _, a := range g.Assets {
		parts = append(parts, a.Content)
	}
	return bytes.Join(parts, []byte("\n"))
}

// Compiler compiles collection groups.
type Compiler struct {
	compileRemotes bool
}

// NewCompiler creates a compiler. When compileRemotes is false remote
// assets are left out of compiled output.
func NewCompiler(compileRemotes bool) *Compiler {
	return &Compiler{compileRemotes: compileRemotes}
}

// Compile processes the collection and compiles every asset of group g
// that is neither ignored nor an excluded remote.
func (c *Compiler) Compile(col *Collection, g Group) (*CompiledGroup, error) {
	out := &CompiledGroup{Collection: col.Name(), Group: g}
	for _, a := range col.Assets(g) {
		if a.IsIgnored() {
			continue
		}
		if a.IsRemote() && !c.compileRemotes {
			continue
		}
		content, err := a.Compile()
		if err != nil {
			return nil, err
		}
		out.Assets = append(out.Assets, CompiledAsset{Identity: a.Identity(), Content: content})
	}

	if len(out.Assets) == 0 {
		return nil, &NoAssetsCompiledError{Collection: col.Name(), Group: g}
	}
	logger.Debug("compiled collection group",
		logger.String("collection", col.Name()),
		logger.String("group", g.String()),
		logger.Int("assets", len(out.Assets)))
	return out, nil
}
