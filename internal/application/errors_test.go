package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	custom := ErrWeakPassword.WithMessage("too short")
	assert.ErrorIs(t, custom, ErrWeakPassword)
	assert.Equal(t, "too short", custom.Message)
	assert.Equal(t, "Password does not meet the strength policy.", ErrWeakPassword.Message)

	assert.ErrorIs(t, ErrPizzaNotFound, ErrInvalidReference)
	assert.ErrorIs(t, ErrSizeNotFound, ErrInvalidReference)
	assert.NotErrorIs(t, ErrInvalidReference, ErrPizzaNotFound)
	assert.NotErrorIs(t, ErrPizzaNotFound, ErrSizeNotFound)

	wrapped := fmt.Errorf("outer: %w", ErrEmailTaken)
	assert.ErrorIs(t, wrapped, ErrEmailTaken)
	assert.Same(t, ErrEmailTaken, AsError(wrapped))
}

func TestAsErrorFallsBackToInternal(t *testing.T) {
	cause := errors.New("connection reset")
	e := AsError(cause)
	assert.ErrorIs(t, e, ErrInternal)
	assert.Equal(t, KindInternal, e.Kind)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, ErrInternal.Message, e.Message)
}

func TestCheckPassword(t *testing.T) {
	assert.ErrorIs(t, CheckPassword(""), ErrPasswordNotSet)
	assert.ErrorIs(t, CheckPassword("abc"), ErrWeakPassword)
	assert.ErrorIs(t, CheckPassword("abcdefgh"), ErrWeakPassword)
	assert.NoError(t, CheckPassword("Abcdefg1"))
	assert.NoError(t, CheckPassword("Abcd1234!"))
}
