// Package fingerprint computes the content hashes used to name build
// artifacts and to detect unchanged output.
package fingerprint

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ShortLen is the number of hex characters kept by Short.
const ShortLen = 12

// Of returns the hex BLAKE3-256 digest of data. Identical input always
// yields the identical fingerprint.
func Of(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short returns a truncated fingerprint suitable for path segments.
func Short(data []byte) string {
	return Of(data)[:ShortLen]
}

// Valid reports whether s looks like a full fingerprint produced by Of.
func Valid(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
