package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mgb-rewards-backend/internal/common/middleware"
	"mgb-rewards-backend/internal/features/tasks/service"
)

type TaskHandler struct {
	service service.TaskService
}

func NewTaskHandler(service service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("/daily", h.getDaily)
		tasks.POST("/:id/claim", h.claim)
	}
	router.POST("/ads/watch", h.watchAd)
}

// @Summary Get daily tasks
// @Description Daily tasks with claim state and today's watched-ad count.
// @Tags tasks
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.DailyTasksResponse "Daily activity"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /tasks/daily [get]
func (h *TaskHandler) getDaily(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	daily, err := h.service.GetDaily(c.Request.Context(), telegramUser.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, daily)
}

// @Summary Claim a task
// @Description Claim a daily task's reward. Each task can be claimed once per day.
// @Tags tasks
// @Produce json
// @Security TelegramInitData
// @Param id path string true "Task ID"
// @Success 200 {object} models.ClaimResponse "Credited reward"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 409 {object} map[string]string "Already claimed"
// @Router /tasks/{id}/claim [post]
func (h *TaskHandler) claim(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	claim, err := h.service.Claim(c.Request.Context(), telegramUser.ID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, service.ErrAlreadyClaimed):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Task already claimed today"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, claim)
}

// @Summary Record a watched ad
// @Description Credit the ad reward and bump today's counter, up to the daily limit.
// @Tags tasks
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.WatchAdResponse "Credited ad view"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Daily limit reached"
// @Router /ads/watch [post]
func (h *TaskHandler) watchAd(c *gin.Context) {
	telegramUser, ok := middleware.TelegramUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
		return
	}

	result, err := h.service.WatchAd(c.Request.Context(), telegramUser.ID)
	if err != nil {
		if errors.Is(err, service.ErrAdLimitReached) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily ad limit reached"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
