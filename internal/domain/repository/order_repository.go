package repository

import (
	"context"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

type OrderRepository interface {
	// Create stores o together with its topping links.
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// SaveCheckout stores delivery details, status and payment method. TotalPrice is never written.
	SaveCheckout(ctx context.Context, o *entity.Order) error
}
