package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDContextKey = "userID"

// UserIDHeader carries the acting user's identifier. Authentication happens
// upstream at the gateway; this service only needs the ID for audit fields.
const UserIDHeader = "X-User-ID"

// RequireUserID rejects requests that arrive without an acting user.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserIDHeader + " header"})
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the acting user's ID set by RequireUserID.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(userIDContextKey)
	if !ok {
		return "", false
	}
	s, ok := userID.(string)
	return s, ok && s != ""
}
