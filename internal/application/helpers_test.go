package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
)

// recordingNotifier keeps the last token sent to each address.
type recordingNotifier struct {
	mu          sync.Mutex
	activation  map[string]string
	reset       map[string]string
	orderEmails []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{activation: map[string]string{}, reset: map[string]string{}}
}

func (n *recordingNotifier) SendActivation(_ context.Context, u *entity.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activation[u.Email] = token
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, u *entity.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset[u.Email] = token
	return nil
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, _ *entity.Order, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orderEmails = append(n.orderEmails, email)
	return nil
}

func (n *recordingNotifier) activationToken(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.activation[email]
}

func (n *recordingNotifier) resetToken(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reset[email]
}

type identityFixture struct {
	store    *memory.Store
	svc      *application.IdentityService
	notifier *recordingNotifier
	now      *time.Time
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	now := time.Now()
	clock := func() time.Time { return now }

	store := memory.NewStore()
	notifier := newRecordingNotifier()
	svc := application.NewIdentityService(
		store.Users(),
		store.RevokedTokens(),
		store,
		helpers.NewPasswordHasher(bcrypt.MinCost),
		helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour).WithClock(clock),
		helpers.NewSignedTokenCodec("signed-secret").WithClock(clock),
		notifier,
		nil,
		application.IdentityOptions{ActivationMaxAge: 48 * time.Hour, PasswordResetMaxAge: time.Hour},
	)
	return &identityFixture{store: store, svc: svc, notifier: notifier, now: &now}
}

func (f *identityFixture) advance(d time.Duration) { *f.now = f.now.Add(d) }

func registerInput(email, password string) application.RegisterInput {
	return application.RegisterInput{Email: email, Password: password, FirstName: "Ada", LastName: "Lovelace"}
}

// activeUser registers and activates email, returning the activation session.
func (f *identityFixture) activeUser(t *testing.T, email, password string) *application.Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerInput(email, password))
	require.NoError(t, err)
	sess, err := f.svc.Activate(ctx, f.notifier.activationToken(email))
	require.NoError(t, err)
	return sess
}
