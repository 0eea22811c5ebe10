package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenFamily selects the secret and TTL used for a session token.
type TokenFamily string

const (
	FamilyAccess  TokenFamily = "AUTHENTICATION"
	FamilyRefresh TokenFamily = "REFRESH"
)

// JWTManager handles generation and validation of JWT session tokens.
// Access and refresh tokens are signed with different secrets.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	now func() time.Time
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *JWTManager) family(f TokenFamily) ([]byte, time.Duration, error) {
	switch f {
	case FamilyAccess:
		return m.AccessSecret, m.AccessTTL, nil
	case FamilyRefresh:
		return m.RefreshSecret, m.RefreshTTL, nil
	}
	return nil, 0, errors.New("unknown token family")
}

// Issue signs a session token for subject in the given family.
func (m *JWTManager) Issue(subject string, f TokenFamily) (string, time.Time, error) {
	secret, ttl, err := m.family(f)
	if err != nil {
		return "", time.Time{}, err
	}
	now := m.clock()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) GenerateAccessToken(userID string) (string, time.Time, error) {
	return m.Issue(userID, FamilyAccess)
}

func (m *JWTManager) GenerateRefreshToken(userID string) (string, time.Time, error) {
	return m.Issue(userID, FamilyRefresh)
}

// Decode verifies the signature and expiry of a session token. It does not
// consult the revocation ledger.
func (m *JWTManager) Decode(tokenStr string, f TokenFamily) (*Claims, error) {
	secret, _, err := m.family(f)
	if err != nil {
		return nil, err
	}
	return m.parseToken(tokenStr, secret)
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return m.Decode(tokenStr, FamilyAccess)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return m.Decode(tokenStr, FamilyRefresh)
}

func (m *JWTManager) parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.clock))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Join(ErrTokenMalformed, err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
