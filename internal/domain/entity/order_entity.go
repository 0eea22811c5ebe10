package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order holds non-owning references to menu rows. TotalPrice is computed once
// at creation and never recomputed from the current menu.
type Order struct {
	ID            string
	CustomerName  string
	PhoneNumber   string
	Address       string
	PizzaID       string
	SizeID        string
	ToppingIDs    []string
	PaymentMethod PaymentMethod
	TotalPrice    decimal.Decimal
	Status        OrderStatus
	Delivery      *DeliveryDetails
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DeliveryDetails are attached at checkout and do not affect the price.
type DeliveryDetails struct {
	Name                string
	Address             string
	Phone               string
	Email               string
	PaymentMethod       PaymentMethod
	SpecialInstructions string
}
