package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hotelbooking/service-booking/internal/platform/auth"
	"github.com/hotelbooking/service-booking/internal/platform/response"
)

const callerKey = "caller"

// AuthMiddleware verifies the bearer token and stores the Caller on the context.
func AuthMiddleware(jwtManager *auth.JWTManager, adminRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "missing or malformed authorization header")
			return
		}

		claims, err := jwtManager.Verify(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(callerKey, auth.NewCaller(claims.Subject, claims.Roles, adminRole))
		c.Next()
	}
}

// RequireAdmin rejects callers that do not hold the configured admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			return
		}
		if !caller.IsAdmin() {
			response.Forbidden(c, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// GetCaller returns the Caller stored by AuthMiddleware.
func GetCaller(c *gin.Context) (auth.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return auth.Caller{}, false
	}
	caller, ok := v.(auth.Caller)
	return caller, ok
}
