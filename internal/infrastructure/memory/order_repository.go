package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/domain/repository"
)

type OrderRepository struct {
	s *Store
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.pizzas[o.PizzaID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.sizes[o.SizeID]; !ok {
		return repository.ErrNotFound
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := r.s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.s.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	defer r.s.lock(ctx)()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *OrderRepository) SaveCheckout(ctx context.Context, o *entity.Order) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.orders[o.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Status = o.Status
	cur.PaymentMethod = o.PaymentMethod
	if o.Delivery != nil {
		d := *o.Delivery
		cur.Delivery = &d
	}
	cur.UpdatedAt = r.s.now()
	r.s.orders[o.ID] = cur
	o.UpdatedAt = cur.UpdatedAt
	return nil
}
