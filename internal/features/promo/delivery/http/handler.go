package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mgb-rewards-backend/internal/common/middleware"
	"mgb-rewards-backend/internal/features/promo/models"
	"mgb-rewards-backend/internal/features/promo/service"
)

type PromoHandler struct {
	service service.PromoService
}

func NewPromoHandler(service service.PromoService) *PromoHandler {
	return &PromoHandler{service: service}
}

func (h *PromoHandler) RegisterRoutes(router *gin.RouterGroup, adminIDs []int64) {
	router.POST("/promo/redeem", h.redeem)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin(adminIDs))
	{
		admin.POST("/promo", h.create)
	}
}

// @Summary Redeem a promo code
// @Description Credit the code's reward once per user.
// @Tags promo
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param promo body models.RedeemRequest true "Promo code"
// @Success 200 {object} models.RedeemResponse "Credited reward"
// @Failure 404 {object} map[string]string "Unknown code"
// @Failure 409 {object} map[string]string "Already redeemed"
// @Failure 410 {object} map[string]string "Activation limit reached"
// @Router /promo/redeem [post]
func (h *PromoHandler) redeem(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Redeem(c.Request.Context(), telegramUser.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		case errors.Is(err, service.ErrAlreadyRedeemed):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Promo code already redeemed"})
		case errors.Is(err, service.ErrPromoExhausted):
			c.AbortWithStatusJSON(http.StatusGone, gin.H{"error": "Promo code activation limit reached"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Create a promo code
// @Description Register a new redeemable code (admin only).
// @Tags admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param promo body models.CreateRequest true "New promo code"
// @Success 201 {object} models.PromoCode "Created code"
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 409 {object} map[string]string "Code already exists"
// @Router /admin/promo [post]
func (h *PromoHandler) create(c *gin.Context) {
	var req models.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promo, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPromoExists) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Promo code already exists"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, promo)
}
