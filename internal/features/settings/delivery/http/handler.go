package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgb-rewards-backend/internal/common/middleware"
	"mgb-rewards-backend/internal/features/settings/models"
	"mgb-rewards-backend/internal/features/settings/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup, adminIDs []int64) {
	router.GET("/app-settings", h.getSettings)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin(adminIDs))
	{
		admin.PUT("/settings", h.updateSettings)
	}
}

// @Summary Get app settings
// @Description Daily ad limit and minimum withdrawal policy.
// @Tags settings
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.AppSettings "Current settings"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /app-settings [get]
func (h *SettingsHandler) getSettings(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// @Summary Update app settings
// @Description Change ad limit, minimum withdrawal or ad reward (admin only). Omitted fields keep their value.
// @Tags settings
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param settings body models.UpdateRequest true "Fields to change"
// @Success 200 {object} models.AppSettings "Updated settings"
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 403 {object} map[string]string "Admin access required"
// @Router /admin/settings [put]
func (h *SettingsHandler) updateSettings(c *gin.Context) {
	var req models.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}
