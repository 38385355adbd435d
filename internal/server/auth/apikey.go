// Package auth holds the credential primitives of the server: API-key
// digests and reviewer session tokens.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns the hex SHA-256 digest of a raw API key. Only this digest
// is ever stored or compared.
func HashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
