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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id::text, email, COALESCE(secret_hash, ''), first_name, last_name,
	COALESCE(gender, ''), COALESCE(phone_number, ''), COALESCE(identity_number, ''), COALESCE(address, ''),
	is_verified_email, role, activation_status, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = entity.NormalizeEmail(u.Email)
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (email, secret_hash, first_name, last_name, gender, phone_number,
			identity_number, address, is_verified_email, role, activation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id::text, created_at, updated_at
	`, u.Email, nullable(u.SecretHash), u.FirstName, u.LastName, nullable(string(u.Gender)), nullable(u.PhoneNumber),
		nullable(u.IdentityNumber), nullable(u.Address), u.IsVerifiedEmail, string(u.Role), string(u.Status))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.scanOne(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, entity.NormalizeEmail(email)))
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.scanOne(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

func (r *UserRepository) scanOne(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var gender, role, status string
	if err := row.Scan(&u.ID, &u.Email, &u.SecretHash, &u.FirstName, &u.LastName,
		&gender, &u.PhoneNumber, &u.IdentityNumber, &u.Address,
		&u.IsVerifiedEmail, &role, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	st, err := entity.ParseActivationStatus(status)
	if err != nil {
		return nil, err
	}
	u.Gender = entity.Gender(gender)
	u.Role = entity.ParseRole(role)
	u.Status = st
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.Email = entity.NormalizeEmail(u.Email)
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE users
		SET email = $1, secret_hash = $2, first_name = $3, last_name = $4, gender = $5,
			phone_number = $6, identity_number = $7, address = $8, is_verified_email = $9,
			role = $10, activation_status = $11, updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`, u.Email, nullable(u.SecretHash), u.FirstName, u.LastName, nullable(string(u.Gender)),
		nullable(u.PhoneNumber), nullable(u.IdentityNumber), nullable(u.Address), u.IsVerifiedEmail,
		string(u.Role), string(u.Status), u.ID)

	if err := row.Scan(&u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
