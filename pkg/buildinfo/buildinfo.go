package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// Summary is the one-line version banner printed by `assetpipe version`.
func Summary() string {
	v := BinaryVersion
	if mv := ModuleVersion(); mv != "" && mv != "(devel)" && v == "dev" {
		v = mv
	}
	return fmt.Sprintf("assetpipe %s (%s %s/%s)", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
