package middleware

import (
	"net/http"
	"strings"

	"storefront-api/internal/response"
	"storefront-api/internal/services"

	"github.com/gin-gonic/gin"
)

// Identity is the client used to resolve bearer tokens. Initialized once at
// route setup; tests swap it for a client pointed at a fake server.
var Identity *services.IdentityService

// InitIdentity initializes the identity client used by the middleware
func InitIdentity() {
	Identity = services.NewIdentityService()
}

// BearerAuthMiddleware authenticates requests against the identity service.
// The resolved account id and email are stored in the request context.
func BearerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" || token == authHeader {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
			c.Abort()
			return
		}

		account, err := Identity.GetUserByToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("user_id", account.ID)
		c.Set("user_email", account.Email)
		c.Next()
	}
}
