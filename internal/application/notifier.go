package application

import (
	"context"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

// Notifier delivers out-of-band messages. Implementations live in pkg/mailer.
type Notifier interface {
	SendActivation(ctx context.Context, u *entity.User, token string) error
	SendPasswordReset(ctx context.Context, u *entity.User, token string) error
	SendOrderConfirmation(ctx context.Context, o *entity.Order, email string) error
}
