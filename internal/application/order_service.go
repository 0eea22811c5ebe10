package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	repo "github.com/oksasatya/go-pizza-api/internal/domain/repository"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
	"github.com/oksasatya/go-pizza-api/pkg/metrics"
)

type OrderService struct {
	Menu     repo.MenuRepository
	Orders   repo.OrderRepository
	Tx       repo.Transactor
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewOrderService(menu repo.MenuRepository, orders repo.OrderRepository, tx repo.Transactor, notifier Notifier, logger *logrus.Logger) *OrderService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &OrderService{Menu: menu, Orders: orders, Tx: tx, Notifier: notifier, Logger: logger}
}

type CreateOrderInput struct {
	CustomerName  string
	PhoneNumber   string
	Address       string
	PizzaID       string
	SizeID        string
	ToppingIDs    []string
	PaymentMethod entity.PaymentMethod
}

// CreateOrder resolves the menu references, prices the order and stores it as
// pending. Unknown topping ids are dropped.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (o *entity.Order, err error) {
	defer func() { metrics.OrdersCreatedTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPayload.WithMessage("Unsupported payment method.")
	}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		pizza, gerr := s.Menu.GetPizza(ctx, in.PizzaID)
		if gerr != nil {
			if errors.Is(gerr, repo.ErrNotFound) {
				return ErrPizzaNotFound
			}
			return internalErr(gerr)
		}
		size, gerr := s.Menu.GetSize(ctx, in.SizeID)
		if gerr != nil {
			if errors.Is(gerr, repo.ErrNotFound) {
				return ErrSizeNotFound
			}
			return internalErr(gerr)
		}
		toppings, gerr := s.Menu.GetToppings(ctx, dedupe(in.ToppingIDs))
		if gerr != nil {
			return internalErr(gerr)
		}

		ids := make([]string, 0, len(toppings))
		for _, t := range toppings {
			ids = append(ids, t.ID)
		}
		o = &entity.Order{
			CustomerName:  in.CustomerName,
			PhoneNumber:   in.PhoneNumber,
			Address:       in.Address,
			PizzaID:       pizza.ID,
			SizeID:        size.ID,
			ToppingIDs:    ids,
			PaymentMethod: in.PaymentMethod,
			TotalPrice:    Price(*pizza, *size, toppings),
			Status:        entity.OrderPending,
		}
		if cerr := s.Orders.Create(ctx, o); cerr != nil {
			return internalErr(cerr)
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	s.Logger.WithFields(logrus.Fields{"order_id": o.ID, "total": o.TotalPrice.String()}).Info("order created")
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, internalErr(err)
	}
	return o, nil
}

// Checkout attaches delivery details and confirms the order. The total price is never touched.
func (s *OrderService) Checkout(ctx context.Context, id string, d entity.DeliveryDetails) (*entity.Order, error) {
	if !d.PaymentMethod.Valid() {
		return nil, ErrInvalidPayload.WithMessage("Unsupported payment method.")
	}
	var o *entity.Order
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var gerr error
		o, gerr = s.Orders.GetByID(ctx, id)
		if gerr != nil {
			if errors.Is(gerr, repo.ErrNotFound) {
				return ErrOrderNotFound
			}
			return internalErr(gerr)
		}
		if o.Status == entity.OrderCancelled {
			return ErrOrderCancelled
		}
		o.Delivery = &d
		o.PaymentMethod = d.PaymentMethod
		o.Status = entity.OrderConfirmed
		if serr := s.Orders.SaveCheckout(ctx, o); serr != nil {
			return internalErr(serr)
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	if d.Email != "" && s.Notifier != nil {
		if err := s.Notifier.SendOrderConfirmation(ctx, o, d.Email); err != nil {
			s.Logger.WithError(err).WithField("order_id", o.ID).Warn("order confirmation email not sent")
		}
	}
	s.Logger.WithField("order_id", o.ID).Info("order checked out")
	return o, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
