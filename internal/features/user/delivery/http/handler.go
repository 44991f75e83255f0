package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgb-rewards-backend/internal/common/middleware"
	"mgb-rewards-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/user", h.getMe)
	}
	user := router.Group("/user")
	{
		user.GET("/stats", h.getStats)
	}
}

// @Summary Get current user
// @Description Get or create the current user from Telegram init data. Updates stored profile fields when they changed.
// @Tags users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.UserResponse "User data with balance"
// @Failure 401 {object} map[string]string "Missing or invalid init data"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/user [get]
func (h *UserHandler) getMe(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	user, err := h.service.GetOrCreateUser(c.Request.Context(), telegramUser.ID, telegramUser.Username, telegramUser.FirstName, telegramUser.LastName)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Get earning statistics
// @Description Today's and referral earnings for the home dashboard.
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.StatsResponse "Earning statistics"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user/stats [get]
func (h *UserHandler) getStats(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), telegramUser.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
