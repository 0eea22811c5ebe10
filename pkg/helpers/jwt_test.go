package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(now *time.Time) *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour).
		WithClock(func() time.Time { return *now })
}

func TestJWTRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestJWT(&now)

	tok, exp, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), exp)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestJWTExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestJWT(&now)

	tok, _, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)

	now = now.Add(16 * time.Minute)
	_, err = m.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTFamiliesUseSeparateSecrets(t *testing.T) {
	now := time.Now()
	m := newTestJWT(&now)

	access, _, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenMalformed)
	_, err = m.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = m.ParseRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestJWTTamperedAndGarbage(t *testing.T) {
	now := time.Now()
	m := newTestJWT(&now)

	tok, _, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok + "x")
	assert.ErrorIs(t, err, ErrTokenMalformed)
	_, err = m.ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	other := NewJWTManager("other", "refresh-secret", time.Minute, time.Hour)
	_, err = other.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestJWTTokensIssuedTogetherDiffer(t *testing.T) {
	now := time.Now()
	m := newTestJWT(&now)

	a, _, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	b, _, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
