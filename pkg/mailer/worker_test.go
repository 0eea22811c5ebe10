package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pizza-api/pkg/helpers"
)

type fakeSender struct {
	err  error
	sent []string
	last struct{ subject, text, html string }
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	f.last.subject, f.last.text, f.last.html = subject, text, html
	return nil
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestProcess(t *testing.T) {
	logger := helpers.NewDiscardLogger()
	ctx := context.Background()

	t.Run("plain job is sent", func(t *testing.T) {
		s := &fakeSender{}
		out := Process(ctx, s, mustJSON(t, EmailJob{To: "a@x.com", Subject: "hi", Text: "body"}), logger)
		assert.Equal(t, Ack, out)
		assert.Equal(t, []string{"a@x.com"}, s.sent)
		assert.Equal(t, "hi", s.last.subject)
	})

	t.Run("template job is rendered", func(t *testing.T) {
		s := &fakeSender{}
		job := EmailJob{To: "a@x.com", Template: "user_activation", Data: map[string]any{
			"GivenNames": "Ada",
			"ActionURL":  "https://pizza.example/auth/jwt/activate?token=t",
			"AppName":    "Pizza",
		}}
		require.Equal(t, Ack, Process(ctx, s, mustJSON(t, job), logger))
		assert.Equal(t, "Activate your Pizza account", s.last.subject)
		assert.Contains(t, s.last.text, "https://pizza.example/auth/jwt/activate?token=t")
		assert.NotEmpty(t, s.last.html)
	})

	t.Run("bad json is dropped", func(t *testing.T) {
		s := &fakeSender{}
		assert.Equal(t, Drop, Process(ctx, s, []byte("{"), logger))
		assert.Empty(t, s.sent)
	})

	t.Run("job without recipient is dropped", func(t *testing.T) {
		assert.Equal(t, Drop, Process(ctx, &fakeSender{}, mustJSON(t, EmailJob{Text: "x"}), logger))
	})

	t.Run("unknown template is dropped", func(t *testing.T) {
		job := EmailJob{To: "a@x.com", Template: "no_such_template"}
		assert.Equal(t, Drop, Process(ctx, &fakeSender{}, mustJSON(t, job), logger))
	})

	t.Run("send failure is requeued", func(t *testing.T) {
		s := &fakeSender{err: errors.New("mailgun down")}
		out := Process(ctx, s, mustJSON(t, EmailJob{To: "a@x.com", Text: "x"}), logger)
		assert.Equal(t, Requeue, out)
		assert.Equal(t, "requeue", out.String())
	})
}
