package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose binds a single-use token to the flow that may consume it.
type TokenPurpose string

const (
	PurposeActivation    TokenPurpose = "ACTIVATION"
	PurposePasswordReset TokenPurpose = "PASSWORD_RESET"
)

// SignedTokenCodec issues single-use, purpose-bound tokens. The signature
// embeds the creation time; the maximum age is chosen by the decoder.
type SignedTokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSignedTokenCodec(secret string) *SignedTokenCodec {
	return &SignedTokenCodec{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (c *SignedTokenCodec) WithClock(now func() time.Time) *SignedTokenCodec {
	c.now = now
	return c
}

type purposeClaims struct {
	SubjectID string       `json:"id,omitempty"`
	Purpose   TokenPurpose `json:"type"`
	jwt.RegisteredClaims
}

// DecodeResult is one of Decoded, WrongPurpose, MissingSubject,
// SignatureExpired or SignatureInvalid.
type DecodeResult interface {
	decodeResult()
}

type Decoded struct{ SubjectID string }

type WrongPurpose struct {
	Expected TokenPurpose
	Actual   TokenPurpose
}

type MissingSubject struct{}

type SignatureExpired struct{}

type SignatureInvalid struct{}

func (Decoded) decodeResult()          {}
func (WrongPurpose) decodeResult()     {}
func (MissingSubject) decodeResult()   {}
func (SignatureExpired) decodeResult() {}
func (SignatureInvalid) decodeResult() {}

// Issue signs {id: subjectID, type: purpose} with the current time.
func (c *SignedTokenCodec) Issue(subjectID string, purpose TokenPurpose) (string, error) {
	claims := &purposeClaims{
		SubjectID: subjectID,
		Purpose:   purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode checks the signature, then the age, then the purpose, then the subject.
func (c *SignedTokenCodec) Decode(token string, maxAge time.Duration, expected TokenPurpose) DecodeResult {
	claims := &purposeClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || claims.IssuedAt == nil {
		return SignatureInvalid{}
	}
	if c.now().Sub(claims.IssuedAt.Time) > maxAge {
		return SignatureExpired{}
	}
	if claims.Purpose != expected {
		return WrongPurpose{Expected: expected, Actual: claims.Purpose}
	}
	if claims.SubjectID == "" {
		return MissingSubject{}
	}
	return Decoded{SubjectID: claims.SubjectID}
}
