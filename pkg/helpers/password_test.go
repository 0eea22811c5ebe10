package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("Abcd1234!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcd1234!", hash)
	assert.True(t, h.Verify(hash, "Abcd1234!"))
	assert.False(t, h.Verify(hash, "Abcd1234?"))
}

func TestPasswordHasherSaltsEveryHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("same-secret")
	require.NoError(t, err)
	b, err := h.Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "same-secret"))
	assert.True(t, h.Verify(b, "same-secret"))
}

func TestPasswordHasherVerifyRejectsBadHashes(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	assert.NotPanics(t, func() {
		assert.False(t, h.Verify("", "anything"))
		assert.False(t, h.Verify("not-a-bcrypt-hash", "anything"))
		assert.False(t, h.Verify("$2a$04$short", "anything"))
	})
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost)
	assert.Equal(t, 12, NewPasswordHasher(12).Cost)
}
