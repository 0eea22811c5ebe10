package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	handlers "github.com/oksasatya/go-pizza-api/internal/interface/http"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
	"github.com/oksasatya/go-pizza-api/pkg/response"
)

// bearerToken reads the Authorization header first, then the access_token cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}

// Auth resolves the access token to an ACTIVE user through the identity
// service and stores userID, user and accessToken in the Gin context.
// Every authentication failure is answered with 403.
func Auth(identity *application.IdentityService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		u, err := identity.Authenticate(c.Request.Context(), token)
		if err != nil {
			e := application.AsError(err)
			if e.Kind == application.KindInternal {
				handlers.WriteError(c, logger, err)
				return
			}
			response.Error(c, http.StatusForbidden, e.Message, gin.H{"code": e.Code})
			return
		}
		c.Set(handlers.CtxUserID, u.ID)
		c.Set(handlers.CtxUser, u)
		c.Set(handlers.CtxToken, token)
		c.Next()
	}
}

// RequireRole lets the request through only when the authenticated user has one of roles.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := handlers.CurrentUser(c)
		if !ok {
			response.Error(c, http.StatusForbidden, application.ErrUnauthenticated.Message, gin.H{"code": application.ErrUnauthenticated.Code})
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, application.ErrForbidden.Message, gin.H{"code": application.ErrForbidden.Code})
	}
}
