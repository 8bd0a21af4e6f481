package recorder

import (
	"crypto/sha256"
	"encoding/hex"
)

// maxHashSize caps how much of a large body is hashed. Hashing only the
// first 1MB bounds memory while keeping collision resistance adequate for
// integrity verification.
const maxHashSize = 1024 * 1024

// HashContent computes the hex-encoded SHA-256 hash of content, hashing at
// most maxHashSize bytes. Returns an empty string for empty content.
func HashContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	if len(content) > maxHashSize {
		content = content[:maxHashSize]
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashString hashes a string and returns the hex-encoded SHA-256 hash.
func HashString(content string) string {
	return HashContent([]byte(content))
}
