package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"antigravity/paywall/internal/model"
	"antigravity/paywall/internal/service"
	"antigravity/paywall/pkg/response"
)

const ContextKeyUser = "current_user"

// Auth validates the bearer access token and stores the resolved user in the
// request context.
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		user, err := authService.UserFromAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}
