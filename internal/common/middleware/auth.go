package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests that passed through without a validated
// Telegram user in the context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := TelegramUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route group to the configured admin IDs.
func RequireAdmin(adminIDs []int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		telegramUser, ok := TelegramUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}

		isAdmin := false
		for _, adminID := range adminIDs {
			if telegramUser.ID == adminID {
				isAdmin = true
				break
			}
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
