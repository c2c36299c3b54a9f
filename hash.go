package ragdex

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the SHA-256 digest of text as a hex string.
// The same digest is used for change tracking, duplicate detection,
// and embedding cache keys.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
