package templates

import (
	"time"

	"github.com/oksasatya/go-pizza-api/config"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

// Option pattern
type Option func(*EmailData)

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		d.ExpiresAtText = time.Now().Add(dur).UTC().Format("02 January 2006, 15:04 MST")
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, givenNames, email string, opts ...Option) EmailData {
	d := EmailData{
		GivenNames:     givenNames,
		Email:          email,
		Type:           typ,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewActivationData(cfg *config.Config, givenNames, email, token string) map[string]any {
	d := NewBaseEmailData(cfg, UserActivation, givenNames, email, WithExpiresIn(cfg.ActivationMaxAge))
	d.Token = token
	d.ActionURL = cfg.ActivationURL(token)
	return ToMap(d)
}

func NewPasswordResetData(cfg *config.Config, givenNames, email, token string) map[string]any {
	d := NewBaseEmailData(cfg, ResetPassword, givenNames, email, WithExpiresIn(cfg.PasswordResetMaxAge))
	d.Token = token
	d.ActionURL = cfg.PasswordResetURL(token)
	return ToMap(d)
}

func NewOrderConfirmationData(cfg *config.Config, o *entity.Order) map[string]any {
	name := o.CustomerName
	address := o.Address
	payment := o.PaymentMethod
	var instructions, email string
	if o.Delivery != nil {
		name = o.Delivery.Name
		address = o.Delivery.Address
		payment = o.Delivery.PaymentMethod
		instructions = o.Delivery.SpecialInstructions
		email = o.Delivery.Email
	}
	d := NewBaseEmailData(cfg, OrderConfirmation, name, email)
	d.OrderID = o.ID
	d.CustomerName = name
	d.TotalPrice = o.TotalPrice.StringFixed(2)
	d.PaymentMethod = string(payment)
	d.DeliveryAddress = address
	d.SpecialInstructions = instructions
	return ToMap(d)
}
