package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripnest/tripnest-backend/internal/auth"
)

// RequireSession rejects requests whose cookies carry no verified session.
// It must run after auth.WithClient.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.UserFirebaseUID(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}
		c.Next()
	}
}
