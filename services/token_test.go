package services

import (
	"testing"
	"time"

	"notetaker/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:         "test-secret-key",
		Issuer:            "notetaker",
		AccessExpiration:  15 * time.Minute,
		RefreshExpiration: 7 * 24 * time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testJWTConfig())

	token, err := tm.GenerateAccessToken("user-42")
	require.NoError(t, err)

	userID, err := tm.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestParseAccessTokenRejections(t *testing.T) {
	tm := NewTokenManager(testJWTConfig())

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, err := tm.GenerateRefreshToken("user-42")
		require.NoError(t, err)

		_, err = tm.ParseAccessToken(refresh)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testJWTConfig()
		other.SecretKey = "different-secret"
		forged, err := NewTokenManager(other).GenerateAccessToken("user-42")
		require.NoError(t, err)

		_, err = tm.ParseAccessToken(forged)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := testJWTConfig()
		other.Issuer = "someone-else"
		foreign, err := NewTokenManager(other).GenerateAccessToken("user-42")
		require.NoError(t, err)

		_, err = tm.ParseAccessToken(foreign)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		other := testJWTConfig()
		other.AccessExpiration = -time.Minute
		expired, err := NewTokenManager(other).GenerateAccessToken("user-42")
		require.NoError(t, err)

		_, err = tm.ParseAccessToken(expired)
		assert.Error(t, err)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := tm.ParseAccessToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager(testJWTConfig())

	token, err := tm.GenerateAccessToken("user-42")
	require.NoError(t, err)

	expiry := tm.TokenExpiry(token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiry, time.Minute)

	// Unparseable tokens fall back to a day so revocations still get a TTL.
	fallback := tm.TokenExpiry("garbage")
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), fallback, time.Minute)
}
