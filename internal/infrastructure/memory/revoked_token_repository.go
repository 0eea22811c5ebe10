package memory

import (
	"context"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/domain/repository"
)

type RevokedTokenRepository struct {
	s *Store
}

var _ repository.RevokedTokenRepository = (*RevokedTokenRepository)(nil)

func (r *RevokedTokenRepository) Revoke(ctx context.Context, t *entity.RevokedToken) (bool, error) {
	defer r.s.lock(ctx)()
	if _, ok := r.s.revoked[t.Token]; ok {
		return false, nil
	}
	rt := *t
	if rt.UserID != nil {
		id := *rt.UserID
		rt.UserID = &id
	}
	rt.CreatedAt = r.s.now()
	r.s.revoked[t.Token] = rt
	t.CreatedAt = rt.CreatedAt
	return true, nil
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.revoked[token]
	return ok, nil
}
