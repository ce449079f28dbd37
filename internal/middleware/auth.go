// Package middleware provides the HTTP middleware chain: bearer-token
// authentication, request logging and Prometheus metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hauskasse/backend/internal/auth"
)

const (
	userIDKey      = "user_id"
	householdIDKey = "household_id"
)

// Auth validates the Authorization bearer token and stores the member's
// identity in the request context.
func Auth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must use the Bearer scheme"})
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(householdIDKey, claims.HouseholdID)
		c.Next()
	}
}

// GetUserID returns the authenticated member's ID from the request context.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// GetHouseholdID returns the authenticated member's household ID from the
// request context.
func GetHouseholdID(c *gin.Context) string {
	return c.GetString(householdIDKey)
}
