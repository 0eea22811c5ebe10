package application

import (
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

// Price returns base_price * multiplier + the sum of topping prices.
// The result does not depend on topping order.
func Price(pizza entity.Pizza, size entity.Size, toppings []entity.Topping) decimal.Decimal {
	total := pizza.BasePrice.Mul(size.Multiplier)
	for _, t := range toppings {
		total = total.Add(t.Price)
	}
	return total
}
