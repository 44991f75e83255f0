package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mgb-rewards-backend/internal/common/errors"
	"mgb-rewards-backend/internal/common/logger"
)

// RequestID assigns every request an ID, reusing the caller's X-Request-ID
// when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler recovers panics and turns AppErrors attached via c.Error
// into JSON responses with the matching HTTP status.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				requestID := getRequestID(c)
				logger.Error().
					Str("request_id", requestID).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", recovered).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
					WithRequestID(requestID).
					WithDetail("panic", fmt.Sprintf("%v", recovered))
				sendErrorResponse(c, appErr)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
		}
		sendErrorResponse(c, appErr.WithRequestID(getRequestID(c)))
	}
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	status := statusForCode(appErr)

	if appErr.IsInternal() {
		logger.Error().
			Str("request_id", appErr.RequestID).
			Str("code", string(appErr.Code)).
			Err(appErr).
			Msg("Request failed")
	} else {
		logger.Debug().
			Str("request_id", appErr.RequestID).
			Str("code", string(appErr.Code)).
			Msg(appErr.Message)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":      appErr.Message,
		"code":       appErr.Code,
		"request_id": appErr.RequestID,
	})
}

func statusForCode(appErr *errors.AppError) int {
	switch {
	case appErr.IsNotFound():
		return http.StatusNotFound
	case appErr.IsValidation():
		return http.StatusBadRequest
	case appErr.Code == errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.Code == errors.ErrCodeForbidden, appErr.Code == errors.ErrCodeUserBanned:
		return http.StatusForbidden
	case appErr.Code == errors.ErrCodeConflict, appErr.Code == errors.ErrCodePendingWithdrawal:
		return http.StatusConflict
	case appErr.Code == errors.ErrCodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
