package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestBinaryVersion(t *testing.T) {
	if BinaryVersion != "dev" {
		t.Errorf("Expected BinaryVersion to be 'dev', got '%s'", BinaryVersion)
	}
}

func TestModuleVersion(t *testing.T) {
	// Build info is not always available under `go test`.
	if version := ModuleVersion(); version == "" {
		t.Log("ModuleVersion returned empty string (build info not available)")
	}
}

func TestSummary(t *testing.T) {
	s := Summary()
	if !strings.HasPrefix(s, "assetpipe ") {
		t.Errorf("Summary() = %q, want assetpipe prefix", s)
	}
	if !strings.Contains(s, runtime.GOOS) {
		t.Errorf("Summary() = %q, want platform", s)
	}
}
