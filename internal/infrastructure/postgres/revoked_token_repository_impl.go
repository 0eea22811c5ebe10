package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/domain/repository"
)

type RevokedTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRevokedTokenRepository(pool *pgxpool.Pool) *RevokedTokenRepository {
	return &RevokedTokenRepository{pool: pool}
}

// Revoke inserts the token; a conflicting row means it was already revoked.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, t *entity.RevokedToken) (bool, error) {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO revoked_tokens (token, user_id)
		VALUES ($1, $2::uuid)
		ON CONFLICT (token) DO NOTHING
		RETURNING created_at
	`, t.Token, t.UserID).Scan(&t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return true, nil
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)`, token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return exists, nil
}

var _ repository.RevokedTokenRepository = (*RevokedTokenRepository)(nil)
