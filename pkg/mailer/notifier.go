package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/config"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier enqueues templated emails for the email worker.
type QueueNotifier struct {
	cfg    *config.Config
	pub    Publisher
	logger *logrus.Logger
}

func NewQueueNotifier(cfg *config.Config, pub Publisher, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{cfg: cfg, pub: pub, logger: logger}
}

func (n *QueueNotifier) SendActivation(ctx context.Context, u *entity.User, token string) error {
	data := templates.NewActivationData(n.cfg, u.FullName(), u.Email, token)
	return n.enqueue(ctx, u.Email, templates.UserActivation, data)
}

func (n *QueueNotifier) SendPasswordReset(ctx context.Context, u *entity.User, token string) error {
	data := templates.NewPasswordResetData(n.cfg, u.FullName(), u.Email, token)
	return n.enqueue(ctx, u.Email, templates.ResetPassword, data)
}

func (n *QueueNotifier) SendOrderConfirmation(ctx context.Context, o *entity.Order, email string) error {
	data := templates.NewOrderConfirmationData(n.cfg, o)
	return n.enqueue(ctx, email, templates.OrderConfirmation, data)
}

func (n *QueueNotifier) enqueue(ctx context.Context, to, tpl string, data map[string]any) error {
	job := EmailJob{To: to, Template: tpl, Data: data}
	if err := n.pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("enqueue %s email: %w", tpl, err)
	}
	n.logger.WithFields(logrus.Fields{"template": tpl}).Debug("email job enqueued")
	return nil
}

// LogNotifier replaces QueueNotifier when MAIL_SEND_ENABLED=false. It only logs.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendActivation(_ context.Context, u *entity.User, _ string) error {
	n.logger.WithField("user_id", u.ID).Info("mail disabled: skipping activation email")
	return nil
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, u *entity.User, _ string) error {
	n.logger.WithField("user_id", u.ID).Info("mail disabled: skipping password reset email")
	return nil
}

func (n *LogNotifier) SendOrderConfirmation(_ context.Context, o *entity.Order, _ string) error {
	n.logger.WithField("order_id", o.ID).Info("mail disabled: skipping order confirmation email")
	return nil
}
