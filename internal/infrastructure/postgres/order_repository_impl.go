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

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order row and its topping links. Call it inside a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	q := conn(ctx, r.pool)
	err := q.QueryRow(ctx, `
		INSERT INTO orders (customer_name, phone_number, address, pizza_id, size_id,
			payment_method, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8)
		RETURNING id::text, created_at, updated_at
	`, o.CustomerName, o.PhoneNumber, o.Address, o.PizzaID, o.SizeID,
		string(o.PaymentMethod), o.TotalPrice.String(), string(o.Status)).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, tid := range o.ToppingIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO order_toppings (order_id, topping_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			o.ID, tid); err != nil {
			return fmt.Errorf("insert order topping: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	o := &entity.Order{}
	var (
		payment, status, total                               string
		dName, dAddress, dPhone, dEmail, dPayment, dInstruct *string
	)
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT o.id::text, o.customer_name, o.phone_number, o.address, o.pizza_id::text, o.size_id::text,
			o.payment_method, o.total_price::text, o.status,
			o.delivery_name, o.delivery_address, o.delivery_phone, o.delivery_email,
			o.delivery_payment_method, o.special_instructions,
			COALESCE(array_agg(ot.topping_id::text ORDER BY ot.topping_id) FILTER (WHERE ot.topping_id IS NOT NULL), '{}'),
			o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN order_toppings ot ON ot.order_id = o.id
		WHERE o.id = $1
		GROUP BY o.id
	`, id).Scan(&o.ID, &o.CustomerName, &o.PhoneNumber, &o.Address, &o.PizzaID, &o.SizeID,
		&payment, &total, &status,
		&dName, &dAddress, &dPhone, &dEmail, &dPayment, &dInstruct,
		&o.ToppingIDs, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.TotalPrice, err = parseDecimal(total); err != nil {
		return nil, err
	}
	o.PaymentMethod = entity.PaymentMethod(payment)
	o.Status = entity.OrderStatus(status)
	if dName != nil {
		o.Delivery = &entity.DeliveryDetails{
			Name:                *dName,
			Address:             deref(dAddress),
			Phone:               deref(dPhone),
			Email:               deref(dEmail),
			PaymentMethod:       entity.PaymentMethod(deref(dPayment)),
			SpecialInstructions: deref(dInstruct),
		}
	}
	return o, nil
}

// SaveCheckout never writes total_price.
func (r *OrderRepository) SaveCheckout(ctx context.Context, o *entity.Order) error {
	d := o.Delivery
	if d == nil {
		d = &entity.DeliveryDetails{}
	}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE orders
		SET status = $1, payment_method = $2,
			delivery_name = $3, delivery_address = $4, delivery_phone = $5, delivery_email = $6,
			delivery_payment_method = $7, special_instructions = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`, string(o.Status), string(o.PaymentMethod),
		nullable(d.Name), nullable(d.Address), nullable(d.Phone), nullable(d.Email),
		nullable(string(d.PaymentMethod)), nullable(d.SpecialInstructions), o.ID).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("save checkout: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
