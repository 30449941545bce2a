/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package exitcode

import (
	"testing"
)

func TestExitCodeConstants(t *testing.T) {
	codes := map[string]int{
		"Success":         Success,
		"GeneralError":    GeneralError,
		"ConfigError":     ConfigError,
		"BuildError":      BuildError,
		"FileSystemError": FileSystemError,
		"NetworkError":    NetworkError,
		"NotFound":        NotFound,
	}
	seen := make(map[int]string)
	for name, code := range codes {
		if other, dup := seen[code]; dup {
			t.Errorf("%s and %s share exit code %d", name, other, code)
		}
		seen[code] = name
	}
	if Success != 0 {
		t.Errorf("Success = %v, expected 0", Success)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{BuildError, "Build error"},
		{FileSystemError, "File system error"},
		{NetworkError, "Network error"},
		{NotFound, "Not found"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		if got := String(tt.code); got != tt.expected {
			t.Errorf("String(%d) = %q, expected %q", tt.code, got, tt.expected)
		}
	}
}
