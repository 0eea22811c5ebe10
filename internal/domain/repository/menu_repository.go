package repository

import (
	"context"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

type MenuRepository interface {
	ListPizzas(ctx context.Context) ([]entity.Pizza, error)
	ListSizes(ctx context.Context) ([]entity.Size, error)
	ListToppings(ctx context.Context) ([]entity.Topping, error)
	GetPizza(ctx context.Context, id string) (*entity.Pizza, error)
	GetSize(ctx context.Context, id string) (*entity.Size, error)
	// GetToppings returns the toppings that exist among ids; unknown ids are skipped.
	GetToppings(ctx context.Context, ids []string) ([]entity.Topping, error)
	UpdatePizzaImage(ctx context.Context, id, image string) error
}
