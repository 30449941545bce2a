package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAssetsCompiled matches *NoAssetsCompiledError.
	ErrNoAssetsCompiled = errors.New("no assets compiled")
	// ErrInvalidDirectory is reported by invalid directory placeholders.
	ErrInvalidDirectory = errors.New("invalid path or working directory supplied")
	// ErrUnresolvedAsset is returned when compiling an unresolved asset.
	ErrUnresolvedAsset = errors.New("asset could not be resolved")
)

// NoAssetsCompiledError reports a collection group that produced nothing.
type NoAssetsCompiledError struct {
	Collection string
	Group      Group
}

func (e *NoAssetsCompiledError) Error() string {
	return fmt.Sprintf("no %s assets compiled for collection %q", e.Group, e.Collection)
}

// Is makes errors.Is(err, ErrNoAssetsCompiled) match.
func (e *NoAssetsCompiledError) Is(target error) bool {
	return target == ErrNoAssetsCompiled
}
