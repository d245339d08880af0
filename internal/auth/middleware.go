package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxEmail = "user_email"

// Middleware rejects requests without a valid bearer token and stores the
// authenticated email in the gin context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		email, err := ParseToken(secret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ctxEmail, email)
		c.Next()
	}
}

// UserEmail returns the email stored by Middleware.
func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(ctxEmail))
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
