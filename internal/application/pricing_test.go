package application

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPrice(t *testing.T) {
	pizza := entity.Pizza{BasePrice: dec("10.0")}
	medium := entity.Size{Multiplier: dec("1.5")}
	olives := entity.Topping{Price: dec("1.0")}
	pepperoni := entity.Topping{Price: dec("2.5")}

	tests := []struct {
		name     string
		toppings []entity.Topping
		want     string
	}{
		{"no toppings", nil, "15"},
		{"two toppings", []entity.Topping{olives, pepperoni}, "18.5"},
		{"reversed order", []entity.Topping{pepperoni, olives}, "18.5"},
		{"duplicate topping counted twice", []entity.Topping{olives, olives}, "17"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(pizza, medium, tt.toppings)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestPriceIsExact(t *testing.T) {
	// 0.1 * 3 + 0.2 is not exact in binary floating point
	got := Price(entity.Pizza{BasePrice: dec("0.1")}, entity.Size{Multiplier: dec("3")}, []entity.Topping{{Price: dec("0.2")}})
	assert.Equal(t, "0.5", got.String())
}

func TestPriceKeepsFullScale(t *testing.T) {
	// cents base times a three-decimal multiplier needs five decimal places
	got := Price(entity.Pizza{BasePrice: dec("10.01")}, entity.Size{Multiplier: dec("1.125")}, []entity.Topping{{Price: dec("0.99")}})
	assert.Equal(t, "12.25125", got.String())
}

func TestPriceIdempotent(t *testing.T) {
	p := entity.Pizza{BasePrice: dec("12.0")}
	s := entity.Size{Multiplier: dec("2.0")}
	tops := []entity.Topping{{Price: dec("2.0")}, {Price: dec("1.5")}}
	assert.True(t, Price(p, s, tops).Equal(Price(p, s, tops)))
}
