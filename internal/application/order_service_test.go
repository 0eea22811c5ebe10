package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/infrastructure/memory"
)

type menuFixture struct {
	store     *memory.Store
	svc       *application.OrderService
	notifier  *recordingNotifier
	pizza     entity.Pizza
	medium    entity.Size
	olives    entity.Topping
	pepperoni entity.Topping
}

func newMenuFixture(t *testing.T) *menuFixture {
	t.Helper()
	store := memory.NewStore()
	menu := store.Menu()
	notifier := newRecordingNotifier()
	return &menuFixture{
		store:     store,
		svc:       application.NewOrderService(menu, store.Orders(), store, notifier, nil),
		notifier:  notifier,
		pizza:     menu.AddPizza(entity.Pizza{Name: "Margherita", BasePrice: decimal.RequireFromString("10.0")}),
		medium:    menu.AddSize(entity.Size{Name: "Medium", Multiplier: decimal.RequireFromString("1.5")}),
		olives:    menu.AddTopping(entity.Topping{Name: "Olives", Price: decimal.RequireFromString("1.0")}),
		pepperoni: menu.AddTopping(entity.Topping{Name: "Pepperoni", Price: decimal.RequireFromString("2.5")}),
	}
}

func (f *menuFixture) input(toppings ...string) application.CreateOrderInput {
	return application.CreateOrderInput{
		CustomerName:  "Ada",
		PhoneNumber:   "+905551112233",
		Address:       "Main St 1",
		PizzaID:       f.pizza.ID,
		SizeID:        f.medium.ID,
		ToppingIDs:    toppings,
		PaymentMethod: entity.PaymentCash,
	}
}

func TestCreateOrderPricesOrder(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, f.input(f.olives.ID, f.pepperoni.ID))
	require.NoError(t, err)
	assert.Equal(t, "18.5", o.TotalPrice.String())
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.ElementsMatch(t, []string{f.olives.ID, f.pepperoni.ID}, o.ToppingIDs)

	got, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, o.TotalPrice.Equal(got.TotalPrice))
}

func TestCreateOrderDropsUnknownAndDuplicateToppings(t *testing.T) {
	f := newMenuFixture(t)

	o, err := f.svc.CreateOrder(context.Background(), f.input(f.olives.ID, uuid.NewString(), f.olives.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{f.olives.ID}, o.ToppingIDs)
	assert.Equal(t, "16", o.TotalPrice.String())
}

func TestCreateOrderInvalidReferences(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	in := f.input()
	in.PizzaID = uuid.NewString()
	_, err := f.svc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, application.ErrPizzaNotFound)
	assert.ErrorIs(t, err, application.ErrInvalidReference)

	in = f.input()
	in.SizeID = uuid.NewString()
	_, err = f.svc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, application.ErrSizeNotFound)

	in = f.input()
	in.PaymentMethod = "bitcoin"
	_, err = f.svc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, application.ErrInvalidPayload)
}

func TestOrderTotalIsFrozen(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, f.input(f.pepperoni.ID))
	require.NoError(t, err)

	// a later menu price change must not affect stored orders
	f.store.Menu().AddPizza(entity.Pizza{ID: f.pizza.ID, Name: f.pizza.Name, BasePrice: decimal.RequireFromString("99")})

	got, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "17.5", got.TotalPrice.String())
}

func TestGetOrderNotFound(t *testing.T) {
	f := newMenuFixture(t)
	_, err := f.svc.GetOrder(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, application.ErrOrderNotFound)
}

func TestCheckout(t *testing.T) {
	f := newMenuFixture(t)
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, f.input(f.olives.ID))
	require.NoError(t, err)

	out, err := f.svc.Checkout(ctx, o.ID, entity.DeliveryDetails{
		Name:          "Ada",
		Address:       "Elsewhere 2",
		Phone:         "+905551112233",
		Email:         "ada@x.com",
		PaymentMethod: entity.PaymentCreditCard,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, out.Status)
	assert.Equal(t, entity.PaymentCreditCard, out.PaymentMethod)
	assert.True(t, o.TotalPrice.Equal(out.TotalPrice))
	assert.Equal(t, []string{"ada@x.com"}, f.notifier.orderEmails)

	stored, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Delivery)
	assert.Equal(t, "Elsewhere 2", stored.Delivery.Address)

	_, err = f.svc.Checkout(ctx, uuid.NewString(), entity.DeliveryDetails{PaymentMethod: entity.PaymentCash})
	assert.ErrorIs(t, err, application.ErrOrderNotFound)
}
