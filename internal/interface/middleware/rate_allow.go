package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pizza-api/pkg/response"
)

// AllowPrivateIP reports whether the client address is loopback or in a
// private range. Used as a rate-limit bypass and to fence debug endpoints.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// PrivateOnly rejects requests that AllowPrivateIP does not accept.
func PrivateOnly() gin.HandlerFunc {
	allow := AllowPrivateIP()
	return func(c *gin.Context) {
		if !allow(c) {
			response.Error(c, http.StatusForbidden, "Forbidden", nil)
			return
		}
		c.Next()
	}
}
