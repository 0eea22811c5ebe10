package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationTransitions(t *testing.T) {
	tests := []struct {
		from, to ActivationStatus
		ok       bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusDeactivated, true},
		{StatusDeactivated, StatusActive, true},
		{StatusReset, StatusActive, true},
		{StatusActive, StatusDeactivated, false},
		{StatusActive, StatusPending, false},
		{StatusDeactivated, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := tt.from.CheckTransition(tt.to)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestActivateUser(t *testing.T) {
	u := &User{Status: StatusDeactivated, SecretHash: "$2a$10$hash"}
	require.NoError(t, u.Activate())
	assert.Equal(t, StatusActive, u.Status)
	assert.True(t, u.IsVerifiedEmail)

	assert.ErrorIs(t, u.Activate(), ErrAlreadyActive)
}

func TestActivateUserWithoutPassword(t *testing.T) {
	u := &User{Status: StatusDeactivated}
	assert.ErrorIs(t, u.Activate(), ErrInvalidTransition)
	assert.Equal(t, StatusDeactivated, u.Status)
	assert.False(t, u.IsVerifiedEmail)
}

func TestParseActivationStatus(t *testing.T) {
	st, err := ParseActivationStatus("ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	_, err = ParseActivationStatus("active")
	assert.Error(t, err)

	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleUser, ParseRole("root"))
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentDebitCard.Valid())
	assert.False(t, PaymentMethod("bitcoin").Valid())
}
