package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-pizza-api/pkg/mailer/templates"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota // sent
	Drop                   // unusable payload, never retry
	Requeue                // transient failure
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	default:
		return "requeue"
	}
}

// Process decodes a queued EmailJob, renders its template if any and sends it.
func Process(ctx context.Context, sender Sender, body []byte, logger *logrus.Logger) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		logger.WithError(err).Warn("email job: bad payload")
		return Drop
	}
	if !job.Valid() {
		logger.Warn("email job: missing recipient or content")
		return Drop
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			logger.WithError(err).WithField("template", job.Template).Warn("email job: render failed")
			return Drop
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := sender.Send(c, job.To, subject, text, html); err != nil {
		logger.WithError(fmt.Errorf("send %s: %w", job.Template, err)).Warn("email job: send failed, requeueing")
		return Requeue
	}
	logger.WithField("template", job.Template).Info("email sent")
	return Ack
}
