package model

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAPIKey(t *testing.T) {
	key := GenerateAPIKey()

	assert.True(t, strings.HasPrefix(key, APIKeyPrefix))

	// 32 random bytes encode to 43 base64url characters without padding
	payload := strings.TrimPrefix(key, APIKeyPrefix)
	assert.Len(t, payload, 43)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), payload)
	assert.NotContains(t, payload, "=")
}

func TestGenerateAPIKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := GenerateAPIKey()
		assert.False(t, seen[key], "generated a duplicate key")
		seen[key] = true
	}
}

func TestHashAPIKey(t *testing.T) {
	key := "nm_test-key"

	sum := sha256.Sum256([]byte(key))
	assert.Equal(t, hex.EncodeToString(sum[:]), HashAPIKey(key))

	// Lowercase hex, 64 characters
	hash := HashAPIKey(GenerateAPIKey())
	assert.Len(t, hash, 64)
	assert.Equal(t, strings.ToLower(hash), hash)
}

func TestHashAPIKey_Deterministic(t *testing.T) {
	key := GenerateAPIKey()
	assert.Equal(t, HashAPIKey(key), HashAPIKey(key))
	assert.NotEqual(t, HashAPIKey(key), HashAPIKey(key+"x"))
}

func TestKeyPrefixOf(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "full key",
			key:  "nm_abcdef123456",
			want: "nm_abcd",
		},
		{
			name: "exactly seven characters",
			key:  "nm_abcd",
			want: "nm_abcd",
		},
		{
			name: "shorter than seven",
			key:  "nm_a",
			want: "nm_a",
		},
		{
			name: "empty",
			key:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyPrefixOf(tt.key))
		})
	}
}
