package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/go-pizza-api/internal/container"
	"github.com/oksasatya/go-pizza-api/internal/interface/middleware"
)

// DebugModule exposes expvar and prometheus metrics to private networks.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", middleware.PrivateOnly(), rl, gin.WrapH(expvar.Handler()))
	rg.GET("/metrics", middleware.PrivateOnly(), rl, gin.WrapH(promhttp.Handler()))
}
