package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-pizza-api/config"
	"github.com/oksasatya/go-pizza-api/internal/container"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-pizza-api/internal/router"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
	"github.com/oksasatya/go-pizza-api/pkg/validation"
)

type tokenNotifier struct {
	mu         sync.Mutex
	activation map[string]string
	reset      map[string]string
}

func (n *tokenNotifier) SendActivation(_ context.Context, u *entity.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activation[u.Email] = token
	return nil
}

func (n *tokenNotifier) SendPasswordReset(_ context.Context, u *entity.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset[u.Email] = token
	return nil
}

func (n *tokenNotifier) SendOrderConfirmation(context.Context, *entity.Order, string) error {
	return nil
}

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   map[string]any  `json:"error"`
}

type testServer struct {
	engine   *gin.Engine
	store    *memory.Store
	notifier *tokenNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()
	container.Reset()
	t.Cleanup(container.Reset)

	cfg := &config.Config{
		APIPrefix:           "/api/v1",
		JWTAccessSecret:     "access-secret",
		JWTRefreshSecret:    "refresh-secret",
		SignedTokenSecret:   "signed-secret",
		AccessTTL:           30 * time.Minute,
		RefreshTTL:          24 * time.Hour,
		ActivationMaxAge:    48 * time.Hour,
		PasswordResetMaxAge: time.Hour,
		BcryptCost:          bcrypt.MinCost,
		CookieDomain:        "localhost",
	}
	logger := helpers.NewDiscardLogger()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	store := memory.NewStore()
	notifier := &tokenNotifier{activation: map[string]string{}, reset: map[string]string{}}
	svc := router.BuildServices(cfg, router.MemoryStorage(store), notifier, logger)

	engine := router.NewEngine(cfg, logger)
	reg := router.NewRegistry(engine, cfg.APIPrefix)
	router.InitModulesWith(reg, cfg, svc)
	reg.RegisterAll()
	return &testServer{engine: engine, store: store, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path string, body any, bearer string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func registerBody(email, password string) map[string]any {
	return map[string]any{
		"email":      email,
		"password":   password,
		"first_name": "Grace",
		"last_name":  "Hopper",
		"gender":     "Female",
	}
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	const email = "grace@example.com"
	const password = "Str0ngPass!"

	code, env := s.do(t, http.MethodPost, "/api/v1/users/register", registerBody(email, password), "")
	require.Equal(t, http.StatusCreated, code, env.Message)
	var user struct {
		Email            string `json:"email"`
		ActivationStatus string `json:"activation_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "DEACTIVATED", user.ActivationStatus)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/login", map[string]any{"email": email, "password": password}, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/register", registerBody(email, password), "")
	assert.Equal(t, http.StatusConflict, code)

	token := s.notifier.activation[email]
	require.NotEmpty(t, token)
	code, env = s.do(t, http.MethodPost, "/api/v1/users/activate", map[string]any{"token": token}, "")
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/activate", map[string]any{"token": token}, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/users/login", map[string]any{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, code, env.Message)
	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/login", map[string]any{"email": email, "password": "Wrong0ne!"}, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/users/me", nil, tokens.AccessToken)
	require.Equal(t, http.StatusOK, code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "ACTIVE", user.ActivationStatus)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/logout", map[string]any{"token": tokens.RefreshToken}, tokens.AccessToken)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/users/me", nil, tokens.AccessToken)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, 1, env.Status)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/token/refresh", map[string]any{"token": tokens.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMeRequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/v1/users/me", nil, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.NotEmpty(t, env.Error["code"])

	code, _ = s.do(t, http.MethodGet, "/api/v1/users/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/v1/users/register", registerBody("weak@example.com", "abc"), "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/register", registerBody("long@example.com", "Aa1!"+strings.Repeat("x", 80)), "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/register", registerBody("not-an-email", "Str0ngPass!"), "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestForgotPasswordDoesNotRevealUnknownEmail(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/v1/users/forgot-password", map[string]any{"email": "nobody@example.com"}, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, s.notifier.reset)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	s := newTestServer(t)
	const email = "reset@example.com"

	code, _ := s.do(t, http.MethodPost, "/api/v1/users/register", registerBody(email, "Str0ngPass!"), "")
	require.Equal(t, http.StatusCreated, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/users/activate", map[string]any{"token": s.notifier.activation[email]}, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/forgot-password", map[string]any{"email": email}, "")
	require.Equal(t, http.StatusOK, code)
	resetToken := s.notifier.reset[email]
	require.NotEmpty(t, resetToken)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/reset-password", map[string]any{"token": resetToken, "password": "short"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env := s.do(t, http.MethodPost, "/api/v1/users/reset-password", map[string]any{"token": resetToken, "password": "N3wSecret!"}, "")
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(t, http.MethodPost, "/api/v1/users/login", map[string]any{"email": email, "password": "N3wSecret!"}, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/users/reset-password", map[string]any{"token": resetToken, "password": "An0therOne!"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOrderFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	menu := s.store.Menu()
	pizza := menu.AddPizza(entity.Pizza{Name: "Margherita", BasePrice: decimal.RequireFromString("10.0")})
	size := menu.AddSize(entity.Size{Name: "Medium", Multiplier: decimal.RequireFromString("1.5")})
	olives := menu.AddTopping(entity.Topping{Name: "Olives", Price: decimal.RequireFromString("1.0")})
	pepperoni := menu.AddTopping(entity.Topping{Name: "Pepperoni", Price: decimal.RequireFromString("2.5")})

	code, env := s.do(t, http.MethodPost, "/api/v1/orders/", map[string]any{
		"customer_name":  "Grace",
		"phone_number":   "+15550100",
		"address":        "1 Main St",
		"pizza_id":       pizza.ID,
		"size_id":        size.ID,
		"topping_ids":    []string{olives.ID, pepperoni.ID},
		"payment_method": "cash",
	}, "")
	require.Equal(t, http.StatusCreated, code, env.Message)
	var order struct {
		ID         string   `json:"id"`
		TotalPrice string   `json:"total_price"`
		ToppingIDs []string `json:"topping_ids"`
		Status     string   `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "18.5", order.TotalPrice)
	assert.Len(t, order.ToppingIDs, 2)

	code, env = s.do(t, http.MethodGet, "/api/v1/orders/"+order.ID+"/", nil, "")
	require.Equal(t, http.StatusOK, code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "18.5", order.TotalPrice)

	code, env = s.do(t, http.MethodPost, "/api/v1/checkout/"+order.ID+"/", map[string]any{
		"name":           "Grace",
		"address":        "2 Side St",
		"phone":          "+15550100",
		"payment_method": "credit_card",
	}, "")
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Order processed successfully", env.Message)

	code, _ = s.do(t, http.MethodGet, "/api/v1/orders/"+pizza.ID+"/", nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/orders/", map[string]any{
		"customer_name":  "Grace",
		"phone_number":   "+15550100",
		"address":        "1 Main St",
		"pizza_id":       pizza.ID,
		"size_id":        size.ID,
		"payment_method": "bitcoin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMenuListing(t *testing.T) {
	s := newTestServer(t)
	s.store.Menu().AddPizza(entity.Pizza{Name: "Margherita", BasePrice: decimal.RequireFromString("10.0")})

	code, env := s.do(t, http.MethodGet, "/api/v1/pizzas/", nil, "")
	require.Equal(t, http.StatusOK, code)
	var pizzas []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &pizzas))
	require.Len(t, pizzas, 1)
	assert.Equal(t, "Margherita", pizzas[0]["name"])

	code, _ = s.do(t, http.MethodGet, "/api/v1/toppings/", nil, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/pizzas/abc/image", nil, "")
	assert.Equal(t, http.StatusForbidden, code)
}
