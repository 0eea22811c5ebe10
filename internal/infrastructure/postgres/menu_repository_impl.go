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

type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

const (
	pizzaColumns   = `id::text, name, description, base_price::text, COALESCE(image, ''), created_at`
	sizeColumns    = `id::text, name, multiplier::text, created_at`
	toppingColumns = `id::text, name, price::text, COALESCE(icon, ''), created_at`
)

func scanPizza(row pgx.Row) (entity.Pizza, error) {
	var p entity.Pizza
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Image, &p.CreatedAt); err != nil {
		return p, err
	}
	d, err := parseDecimal(price)
	p.BasePrice = d
	return p, err
}

func scanSize(row pgx.Row) (entity.Size, error) {
	var s entity.Size
	var mult string
	if err := row.Scan(&s.ID, &s.Name, &mult, &s.CreatedAt); err != nil {
		return s, err
	}
	d, err := parseDecimal(mult)
	s.Multiplier = d
	return s, err
}

func scanTopping(row pgx.Row) (entity.Topping, error) {
	var t entity.Topping
	var price string
	if err := row.Scan(&t.ID, &t.Name, &price, &t.Icon, &t.CreatedAt); err != nil {
		return t, err
	}
	d, err := parseDecimal(price)
	t.Price = d
	return t, err
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *MenuRepository) ListPizzas(ctx context.Context) ([]entity.Pizza, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+pizzaColumns+` FROM pizzas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list pizzas: %w", err)
	}
	return collect(rows, scanPizza)
}

func (r *MenuRepository) ListSizes(ctx context.Context) ([]entity.Size, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+sizeColumns+` FROM sizes ORDER BY multiplier`)
	if err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	return collect(rows, scanSize)
}

func (r *MenuRepository) ListToppings(ctx context.Context) ([]entity.Topping, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT `+toppingColumns+` FROM toppings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list toppings: %w", err)
	}
	return collect(rows, scanTopping)
}

func (r *MenuRepository) GetPizza(ctx context.Context, id string) (*entity.Pizza, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	p, err := scanPizza(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+pizzaColumns+` FROM pizzas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get pizza: %w", err)
	}
	return &p, nil
}

func (r *MenuRepository) GetSize(ctx context.Context, id string) (*entity.Size, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	s, err := scanSize(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+sizeColumns+` FROM sizes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get size: %w", err)
	}
	return &s, nil
}

func (r *MenuRepository) GetToppings(ctx context.Context, ids []string) ([]entity.Topping, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []entity.Topping{}, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+toppingColumns+` FROM toppings WHERE id = ANY($1::uuid[]) ORDER BY name`, valid)
	if err != nil {
		return nil, fmt.Errorf("get toppings: %w", err)
	}
	return collect(rows, scanTopping)
}

func (r *MenuRepository) UpdatePizzaImage(ctx context.Context, id, image string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE pizzas SET image = $1 WHERE id = $2`, image, id)
	if err != nil {
		return fmt.Errorf("update pizza image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpsertPizza inserts or updates a pizza by name. Used by the seeder.
func (r *MenuRepository) UpsertPizza(ctx context.Context, p *entity.Pizza) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO pizzas (name, description, base_price, image)
		VALUES ($1, $2, $3::numeric, $4)
		ON CONFLICT (name) DO UPDATE
		SET description = EXCLUDED.description, base_price = EXCLUDED.base_price, image = EXCLUDED.image
		RETURNING id::text, created_at
	`, p.Name, p.Description, p.BasePrice.String(), nullable(p.Image)).Scan(&p.ID, &p.CreatedAt)
}

func (r *MenuRepository) UpsertSize(ctx context.Context, s *entity.Size) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO sizes (name, multiplier)
		VALUES ($1, $2::numeric)
		ON CONFLICT (name) DO UPDATE SET multiplier = EXCLUDED.multiplier
		RETURNING id::text, created_at
	`, s.Name, s.Multiplier.String()).Scan(&s.ID, &s.CreatedAt)
}

func (r *MenuRepository) UpsertTopping(ctx context.Context, t *entity.Topping) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO toppings (name, price, icon)
		VALUES ($1, $2::numeric, $3)
		ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price, icon = EXCLUDED.icon
		RETURNING id::text, created_at
	`, t.Name, t.Price.String(), nullable(t.Icon)).Scan(&t.ID, &t.CreatedAt)
}

var _ repository.MenuRepository = (*MenuRepository)(nil)
