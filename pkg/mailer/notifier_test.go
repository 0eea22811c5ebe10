package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pizza-api/config"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
	"github.com/oksasatya/go-pizza-api/pkg/mailer/templates"
)

type fakePublisher struct {
	err  error
	jobs []EmailJob
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(EmailJob))
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:             "Pizza",
		FrontendURL:         "https://pizza.example",
		ActivationMaxAge:    48 * time.Hour,
		PasswordResetMaxAge: time.Hour,
	}
}

func TestQueueNotifierEnqueuesTemplates(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(testConfig(), pub, helpers.NewDiscardLogger())
	u := &entity.User{ID: "u1", Email: "ada@example.com", FirstName: "Ada"}
	ctx := context.Background()

	require.NoError(t, n.SendActivation(ctx, u, "act-token"))
	require.NoError(t, n.SendPasswordReset(ctx, u, "reset-token"))
	require.Len(t, pub.jobs, 2)

	act := pub.jobs[0]
	assert.Equal(t, "ada@example.com", act.To)
	assert.Equal(t, templates.UserActivation, act.Template)
	assert.Equal(t, "https://pizza.example/auth/jwt/activate?token=act-token", act.Data["ActionURL"])

	reset := pub.jobs[1]
	assert.Equal(t, templates.ResetPassword, reset.Template)
	assert.Equal(t, "https://pizza.example/auth/jwt/reset?token=reset-token", reset.Data["ActionURL"])
}

func TestQueueNotifierOrderConfirmation(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(testConfig(), pub, helpers.NewDiscardLogger())
	o := &entity.Order{
		ID:         "o1",
		TotalPrice: decimal.RequireFromString("18.5"),
		Delivery: &entity.DeliveryDetails{
			Name:          "Grace",
			Address:       "2 Side St",
			Email:         "grace@example.com",
			PaymentMethod: entity.PaymentCreditCard,
		},
	}

	require.NoError(t, n.SendOrderConfirmation(context.Background(), o, "grace@example.com"))
	require.Len(t, pub.jobs, 1)
	data := pub.jobs[0].Data
	assert.Equal(t, "18.50", data["TotalPrice"])
	assert.Equal(t, "2 Side St", data["DeliveryAddress"])
	assert.Equal(t, "credit_card", data["PaymentMethod"])
}

func TestQueueNotifierPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	n := NewQueueNotifier(testConfig(), &fakePublisher{err: boom}, helpers.NewDiscardLogger())
	err := n.SendActivation(context.Background(), &entity.User{Email: "a@x.com"}, "t")
	assert.ErrorIs(t, err, boom)
}
