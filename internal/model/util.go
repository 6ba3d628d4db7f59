package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// APIKeyPrefix is the fixed textual prefix of every raw API key.
const APIKeyPrefix = "nm_"

// apiKeyRandomBytes is the size of the random payload behind the prefix.
const apiKeyRandomBytes = 32

// GenerateAPIKey creates a new raw API key: the fixed prefix followed by a
// URL-safe base64 encoding (no padding) of 32 cryptographically random bytes.
func GenerateAPIKey() string {
	b := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has no usable entropy source
		panic(err)
	}
	return APIKeyPrefix + base64.RawURLEncoding.EncodeToString(b)
}

// HashAPIKey returns the lowercase hex SHA-256 digest of the raw key.
// The same scheme is used at registration and at every lookup.
func HashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// KeyPrefixOf returns the first 7 characters of the raw key. Stored next to
// the hash for a future indexed-prefix lookup; not used for filtering today.
func KeyPrefixOf(apiKey string) string {
	if len(apiKey) < 7 {
		return apiKey
	}
	return apiKey[:7]
}
