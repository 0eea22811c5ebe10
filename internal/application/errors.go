package application

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for the transport boundary.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is an expected failure. Two Errors match under errors.Is when their
// codes are equal, so sentinels keep matching after WithMessage or Wrap.
type Error struct {
	Kind    Kind
	Code    string
	Message string

	parent *Error
	cause  error
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur.Code == t.Code {
			return true
		}
	}
	return false
}

func (e *Error) Unwrap() error { return e.cause }

// WithMessage returns a copy of e carrying msg.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// Wrap returns a copy of e that records cause for logging. The message is unchanged.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

func (e *Error) child(code, msg string) *Error {
	return &Error{Kind: e.Kind, Code: code, Message: msg, parent: e}
}

var (
	ErrEmailTaken      = newError(KindConflict, "email_taken", "A user with this email already exists.")
	ErrWeakPassword    = newError(KindValidation, "weak_password", "Password does not meet the strength policy.")
	ErrPasswordNotSet  = newError(KindValidation, "password_not_set", "Password is required.")
	ErrInvalidPayload  = newError(KindValidation, "invalid_payload", "Invalid request payload.")
	ErrUnknownUser     = newError(KindAuth, "unknown_user", "User not found.")
	ErrNotActivated    = newError(KindForbidden, "not_activated", "User account is not active.")
	ErrForbidden       = newError(KindForbidden, "forbidden", "You are not allowed to perform this action.")
	ErrUnauthenticated = newError(KindAuth, "unauthenticated", "Authentication required.")

	ErrInvalidCredentials = newError(KindAuth, "invalid_credentials", "Invalid credentials.")
	ErrAlreadyActivated   = newError(KindForbidden, "already_activated", "User is already activated.")

	ErrTokenExpired           = newError(KindAuth, "token_expired", "Token has expired.")
	ErrTokenInvalid           = newError(KindAuth, "token_invalid", "Token signature not valid.")
	ErrTokenWrongPurpose      = newError(KindAuth, "token_wrong_purpose", "Wrong token type.")
	ErrTokenMissingSubject    = newError(KindAuth, "token_missing_subject", "No User ID provided.")
	ErrTokenRevoked           = newError(KindAuth, "token_revoked", "Token has been revoked.")
	ErrInvalidActivationToken = newError(KindAuth, "invalid_activation_token", "Activation token is required.")
	ErrInvalidResetToken      = newError(KindAuth, "invalid_reset_token", "Password reset token is required.")
	ErrInvalidRefreshToken    = newError(KindAuth, "invalid_refresh_token", "Refresh token is not valid.")

	ErrInvalidReference = newError(KindNotFound, "invalid_reference", "Referenced menu item does not exist.")
	ErrPizzaNotFound    = ErrInvalidReference.child("pizza_not_found", "Pizza not found.")
	ErrSizeNotFound     = ErrInvalidReference.child("size_not_found", "Size not found.")
	ErrOrderNotFound    = newError(KindNotFound, "order_not_found", "Order not found")
	ErrOrderCancelled   = newError(KindConflict, "order_cancelled", "Cancelled orders cannot be checked out.")

	ErrFeatureUnavailable = newError(KindUnavailable, "unavailable", "This feature is not configured.")
	ErrInternal           = newError(KindInternal, "internal", "Something went wrong. Please try again later.")
)

// AsError extracts the *Error in err's chain. Anything else becomes ErrInternal wrapping err.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.Wrap(err)
}

func internalErr(err error) *Error {
	return ErrInternal.Wrap(err)
}
