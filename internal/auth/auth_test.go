package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))
}

func TestTokensRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tokens := NewTokens("secret", time.Hour)
	tokens.Clock = func() time.Time { return now }

	tok, err := tokens.Issue("user-7")
	require.NoError(t, err)

	id, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-7", id)

	// Another secret cannot verify it.
	_, err = NewTokens("other", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Nor can anyone after it expires.
	tokens.Clock = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectGarbage(t *testing.T) {
	_, err := NewTokens("", 0).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokensDefaults(t *testing.T) {
	tokens := NewTokens("", 0)
	assert.Equal(t, []byte(DevSecret), tokens.secret)
	assert.Equal(t, DefaultTokenTTL, tokens.ttl)
}
