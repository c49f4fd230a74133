package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"go_gizmo/internal/auth"
	"go_gizmo/internal/httpx"
)

// Context keys set by AuthRequired
const (
	UIDKey      = "uid"
	UsernameKey = "username"
	RoleKey     = "role"
)

// AuthRequired is a middleware that validates the bearer JWT
func AuthRequired(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.FailErr(c, httpx.ErrUnauthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				httpx.FailErr(c, httpx.ErrTokenExpired(""))
			} else {
				httpx.FailErr(c, httpx.ErrInvalidToken(""))
			}
			c.Abort()
			return
		}

		c.Set(UIDKey, claims.UID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)
		c.Set(httpx.LoggerKey, httpx.Logger(c).WithField("uid", claims.UID))

		c.Next()
	}
}

// UID returns the authenticated user's id, 0 outside AuthRequired
func UID(c *gin.Context) int {
	return c.GetInt(UIDKey)
}
