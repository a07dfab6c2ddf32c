package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// TokenScope returns the key prefix for responses fetched with token.
// Anonymous requests share the "anon:" scope.
func TokenScope(token string) string {
	if token == "" {
		return "anon:"
	}
	return "tok:" + Hash([]byte(token))[:16] + ":"
}
