package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = contextKey("userID")

// userIDHeader carries the authenticated user identity. Authentication itself
// is handled by an upstream collaborator; this service only trusts the header
// it forwards.
const userIDHeader = "X-User-ID"

// UserIdentityMiddleware extracts the caller's user ID and stores it in the
// Gin context. Requests without an identity are rejected.
func UserIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(string(userIDKey), userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}
