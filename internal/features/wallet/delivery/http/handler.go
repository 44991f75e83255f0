package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mgb-rewards-backend/internal/common/middleware"
	userService "mgb-rewards-backend/internal/features/user/service"
	"mgb-rewards-backend/internal/features/wallet/models"
	"mgb-rewards-backend/internal/features/wallet/service"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(service service.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup, adminIDs []int64) {
	wallet := router.Group("/wallet")
	{
		wallet.GET("/details", h.getWalletDetails)
		wallet.POST("/save", h.saveWallet)
	}

	router.GET("/payment-systems", h.listPaymentSystems)
	router.GET("/withdrawals", h.listWithdrawals)
	router.POST("/withdrawals", h.submitWithdrawal)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin(adminIDs))
	{
		admin.GET("/withdrawals", h.listAllWithdrawals)
		admin.POST("/withdrawals/:id/status", h.resolveWithdrawal)
	}
}

// @Summary Get wallet details
// @Description Saved TON wallet address used to pre-fill the withdrawal form.
// @Tags wallet
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.WalletDetailsResponse "Wallet details"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /wallet/details [get]
func (h *WalletHandler) getWalletDetails(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	details, err := h.service.GetWalletDetails(c.Request.Context(), telegramUser.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}

// @Summary Save wallet details
// @Description Validate and store the user's TON wallet address.
// @Tags wallet
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param wallet body models.SaveWalletRequest true "TON wallet address"
// @Success 200 {object} models.WalletDetailsResponse "Saved details"
// @Failure 400 {object} map[string]string "Invalid address"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /wallet/save [post]
func (h *WalletHandler) saveWallet(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	var req models.SaveWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details, err := h.service.SaveWalletDetails(c.Request.Context(), telegramUser.ID, req.TonWalletAddress)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAddress) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid TON wallet address"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.WalletDetailsResponse{Success: true, WalletDetails: *details})
}

// @Summary List payment systems
// @Description Supported withdrawal destinations with their fee policies.
// @Tags wallet
// @Produce json
// @Security TelegramInitData
// @Success 200 {array} models.PaymentSystem "Payment systems"
// @Router /payment-systems [get]
func (h *WalletHandler) listPaymentSystems(c *gin.Context) {
	c.JSON(http.StatusOK, models.PaymentSystems())
}

// @Summary Get withdrawal history
// @Description The user's withdrawal requests, newest first, with normalized statuses.
// @Tags withdrawals
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.WithdrawalsResponse "Withdrawal history"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /withdrawals [get]
func (h *WalletHandler) listWithdrawals(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	withdrawals, err := h.service.ListWithdrawals(c.Request.Context(), telegramUser.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// @Summary Submit withdrawal
// @Description Validate the withdrawal form and create a pending request. The amount is deducted from the balance immediately.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param withdrawal body models.WithdrawRequest true "Withdrawal form"
// @Success 201 {object} models.WithdrawalResponse "Created request"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Pending withdrawal exists"
// @Router /withdrawals [post]
func (h *WalletHandler) submitWithdrawal(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.service.SubmitWithdrawal(c.Request.Context(), telegramUser.ID, &req)
	if err != nil {
		if vErr, ok := service.AsValidationError(err); ok {
			status := http.StatusBadRequest
			if vErr.Kind == service.KindPendingExists {
				status = http.StatusConflict
			}
			c.AbortWithStatusJSON(status, gin.H{"error": vErr.Message, "kind": vErr.Kind})
			return
		}
		if errors.Is(err, service.ErrWithdrawDisabled) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, userService.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// @Summary List all withdrawals
// @Description Every withdrawal request, optionally filtered by status (admin only).
// @Tags admin
// @Produce json
// @Security TelegramInitData
// @Param status query string false "Status filter" Enums(pending, paid, rejected)
// @Success 200 {array} models.WithdrawalResponse "Withdrawal requests"
// @Failure 403 {object} map[string]string "Admin access required"
// @Router /admin/withdrawals [get]
func (h *WalletHandler) listAllWithdrawals(c *gin.Context) {
	withdrawals, err := h.service.ListAllWithdrawals(c.Request.Context(), c.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// @Summary Resolve withdrawal
// @Description Mark a pending withdrawal as paid or rejected (admin only). Rejection refunds the amount.
// @Tags admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path string true "Withdrawal ID"
// @Param status body models.StatusUpdateRequest true "Resolution"
// @Success 200 {object} models.WithdrawalResponse "Updated request"
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Withdrawal not found"
// @Failure 409 {object} map[string]string "Already resolved"
// @Router /admin/withdrawals/{id}/status [post]
func (h *WalletHandler) resolveWithdrawal(c *gin.Context) {
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.service.ResolveWithdrawal(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawalNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Withdrawal not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown withdrawal status"})
		case errors.Is(err, service.ErrWithdrawalResolved):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Withdrawal is already resolved"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}
