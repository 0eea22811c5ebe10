package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/domain/repository"
)

type UserRepository struct {
	s *Store
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	defer r.s.lock(ctx)()
	email := entity.NormalizeEmail(u.Email)
	if _, ok := r.s.emails[email]; ok {
		return repository.ErrDuplicate
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.s.now()
	u.Email = email
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	r.s.emails[email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.s.lock(ctx)()
	id, ok := r.s.emails[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

// GetByIDForUpdate relies on the transaction holding the store lock.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	defer r.s.lock(ctx)()
	prev, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	email := entity.NormalizeEmail(u.Email)
	if owner, taken := r.s.emails[email]; taken && owner != u.ID {
		return repository.ErrDuplicate
	}
	delete(r.s.emails, prev.Email)
	u.Email = email
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = *u
	r.s.emails[email] = u.ID
	return nil
}
