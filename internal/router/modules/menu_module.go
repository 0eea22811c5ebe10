package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/container"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	handlers "github.com/oksasatya/go-pizza-api/internal/interface/http"
	"github.com/oksasatya/go-pizza-api/internal/interface/middleware"
)

// MenuModule serves the read-only menu plus the admin image upload.
type MenuModule struct {
	Handler  *handlers.MenuHandler
	Identity *application.IdentityService
}

func NewMenuModule(h *handlers.MenuHandler, identity *application.IdentityService) *MenuModule {
	return &MenuModule{Handler: h, Identity: identity}
}

func (m *MenuModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	read := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIPAndScope("menu"), middleware.AllowPrivateIP())

	rg.GET("/pizzas/", read, m.Handler.ListPizzas)
	rg.GET("/pizzas/search", read, m.Handler.SearchPizzas)
	rg.GET("/sizes/", read, m.Handler.ListSizes)
	rg.GET("/toppings/", read, m.Handler.ListToppings)

	admin := rg.Group("/pizzas")
	admin.Use(middleware.Auth(m.Identity, container.GetLogger()), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/:id/image", m.Handler.UploadImage)
	}
}
