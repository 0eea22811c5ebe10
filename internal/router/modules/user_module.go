package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/container"
	handlers "github.com/oksasatya/go-pizza-api/internal/interface/http"
	"github.com/oksasatya/go-pizza-api/internal/interface/middleware"
)

// UserModule wires the identity endpoints under /users.
// Public: register, login, activate, forgot-password, reset-password, token/refresh
// Protected: GET /users/me, POST /users/logout
type UserModule struct {
	Handler  *handlers.UserHandler
	Identity *application.IdentityService
}

func NewUserModule(h *handlers.UserHandler, identity *application.IdentityService) *UserModule {
	return &UserModule{Handler: h, Identity: identity}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	limit := func(scope string, max int) gin.HandlerFunc {
		return middleware.RateLimit(rdb, max, time.Minute, middleware.KeyByIPAndScope(scope), nil)
	}

	users := rg.Group("/users")
	users.POST("/register", limit("register", 10), m.Handler.Register)
	users.POST("/login", limit("login", 10), m.Handler.Login)
	users.POST("/activate", limit("activate", 30), m.Handler.Activate)
	users.POST("/forgot-password", limit("forgot", 5), m.Handler.ForgotPassword)
	users.POST("/reset-password", limit("reset", 30), m.Handler.ResetPassword)
	users.POST("/token/refresh", limit("refresh", 60), m.Handler.RefreshToken)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.Identity, container.GetLogger()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("/logout", m.Handler.Logout)
	}
}
