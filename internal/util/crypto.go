package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// stateBytes gives a 256-bit OAuth state.
const stateBytes = 32

// RandomToken returns n random bytes encoded as unpadded base64url, safe to
// put in a query string without escaping.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random token length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewOAuthState returns a fresh consent state value.
func NewOAuthState() (string, error) {
	return RandomToken(stateBytes)
}

// SHA256Hex returns the SHA-256 hash of s as a lowercase hex string.
// Only meant for high-entropy inputs such as OAuth state values.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
