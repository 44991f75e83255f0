package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgb-rewards-backend/internal/common/logger"
	"mgb-rewards-backend/internal/features/user/service"
)

// AutoCreateUser makes sure every authenticated request has a stored
// account behind it, creating or refreshing it from the init data.
func AutoCreateUser(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		telegramUser, ok := TelegramUser(c)
		if !ok {
			c.Next()
			return
		}

		_, err := userService.GetOrCreateUser(c.Request.Context(), telegramUser.ID, telegramUser.Username, telegramUser.FirstName, telegramUser.LastName)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", telegramUser.ID).Msg("Failed to auto-create user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create/update user"})
			return
		}

		c.Next()
	}
}
