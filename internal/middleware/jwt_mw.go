package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"leave_portal/internal/model"
	"leave_portal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// TokenVerifier resolves a bearer token to the user it was issued for
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.User, error)
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		user, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				log.Printf("[%s] Error verifying token: %v", RequestID(c), err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, user.ID)
		c.Set(AuthRoleKey, user.Role)

		c.Next()
	}
}
