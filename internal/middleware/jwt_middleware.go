package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/utils"
)

// JWTMiddleware authenticates dashboard requests with a Bearer session token.
type JWTMiddleware struct {
	jwt *utils.JWTManager
}

// NewJWTMiddleware constructs a JWTMiddleware.
func NewJWTMiddleware(jwt *utils.JWTManager) *JWTMiddleware {
	return &JWTMiddleware{jwt: jwt}
}

// Handle returns a Gin middleware that validates the session token and puts
// the caller's id and email on the context.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := m.jwt.Validate(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
