package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(20)
	require.NoError(t, err)
	b, err := RandomToken(20)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 20)

	_, err = RandomToken(0)
	assert.Error(t, err)
}

func TestNewOAuthState(t *testing.T) {
	s, err := NewOAuthState()
	require.NoError(t, err)
	// 32 bytes in unpadded base64url
	assert.Len(t, s, 43)
	assert.NotContains(t, s, "=")
	assert.NotContains(t, s, "+")
	assert.NotContains(t, s, "/")
}

func TestSHA256Hex(t *testing.T) {
	// echo -n "hello" | sha256sum
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", SHA256Hex("hello"))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(""))
	assert.NotEqual(t, SHA256Hex("state-a"), SHA256Hex("state-b"))
}
