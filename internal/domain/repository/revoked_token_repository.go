package repository

import (
	"context"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

// RevokedTokenRepository is the token revocation ledger.
type RevokedTokenRepository interface {
	// Revoke appends t. It reports false without error if the token was already revoked.
	Revoke(ctx context.Context, t *entity.RevokedToken) (bool, error)
	IsRevoked(ctx context.Context, token string) (bool, error)
}
