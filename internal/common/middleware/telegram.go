package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"mgb-rewards-backend/internal/common/logger"
)

// TelegramInitData validates the Mini App init_data header against the bot
// token and stores the parsed Telegram user in the request context.
// expIn of zero disables the expiration check.
func TelegramInitData(botToken string, expIn time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		initDataQuery := c.GetHeader("init_data")
		if initDataQuery == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}

		if botToken == "" {
			logger.Error().Msg("BOT_TOKEN not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
			return
		}

		if err := initdata.Validate(initDataQuery, botToken, expIn); err != nil {
			logger.Debug().Err(err).Msg("Init data validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": fmt.Sprintf("Invalid init data: %v", err)})
			return
		}

		parsedData, err := initdata.Parse(initDataQuery)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to parse init data: %v", err)})
			return
		}

		c.Set("user", parsedData.User)
		c.Next()
	}
}

// TelegramUser extracts the parsed init-data user set by TelegramInitData.
func TelegramUser(c *gin.Context) (initdata.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return initdata.User{}, false
	}
	telegramUser, ok := user.(initdata.User)
	return telegramUser, ok
}
