package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// TokenBytes is the entropy of an access token; the plaintext is its hex form.
const TokenBytes = 32

// ==================== ACCESS TOKEN ====================

// GenerateToken returns a random plaintext bearer token.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 digest stored in place of the plaintext.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// IsWellFormedToken reports whether plain looks like a token issued by
// GenerateToken, so garbage never reaches the database.
func IsWellFormedToken(plain string) bool {
	if len(plain) != TokenBytes*2 {
		return false
	}
	for i := 0; i < len(plain); i++ {
		c := plain[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
