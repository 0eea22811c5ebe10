package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pizza-api/internal/container"
	handlers "github.com/oksasatya/go-pizza-api/internal/interface/http"
	"github.com/oksasatya/go-pizza-api/internal/interface/middleware"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
}

func NewOrderModule(h *handlers.OrderHandler) *OrderModule {
	return &OrderModule{Handler: h}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndScope("orders"), nil)

	rg.POST("/orders/", rl, m.Handler.Create)
	rg.GET("/orders/:id/", rl, m.Handler.Get)
	rg.POST("/checkout/:id/", rl, m.Handler.Checkout)
}
