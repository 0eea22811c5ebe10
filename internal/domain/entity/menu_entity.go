package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Pizza struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Size struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Topping struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Icon      string          `json:"icon"`
	CreatedAt time.Time       `json:"created_at"`
}
