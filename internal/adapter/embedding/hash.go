package embedding

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashString returns the hex-encoded SHA-256 of s, used to build cache
// keys for embedded texts.
func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
