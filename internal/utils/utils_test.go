package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "user-1", "a@b.com", "MERCHANT", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "MERCHANT", claims.Role)

	_, err = ParseAccessToken("other", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "user-1", "a@b.com", "MERCHANT", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "123456"))
	assert.False(t, VerifyPassword(hash, "654321"))
}

func TestResetToken(t *testing.T) {
	raw, digest, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, digest, HashToken(raw))
	assert.NotEqual(t, raw, digest)
}
