package errors

import (
	"fmt"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"

	// User errors
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserBanned   ErrorCode = "USER_BANNED"

	// Wallet / withdrawal errors
	ErrCodeWithdrawalNotFound ErrorCode = "WITHDRAWAL_NOT_FOUND"
	ErrCodePendingWithdrawal  ErrorCode = "PENDING_WITHDRAWAL_EXISTS"
	ErrCodeInsufficientFunds  ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeInvalidAddress     ErrorCode = "INVALID_WALLET_ADDRESS"

	// Promo errors
	ErrCodePromoNotFound  ErrorCode = "PROMO_NOT_FOUND"
	ErrCodePromoExhausted ErrorCode = "PROMO_EXHAUSTED"
	ErrCodePromoRedeemed  ErrorCode = "PROMO_ALREADY_REDEEMED"

	// Infrastructure errors
	ErrCodeStorageError ErrorCode = "STORAGE_ERROR"
	ErrCodeCacheError   ErrorCode = "CACHE_ERROR"
)

// AppError is a typed application error carried through handlers so the
// error-handler middleware can map it to an HTTP response.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	UserID    int64                  `json:"user_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is any of the "not found" codes.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeUserNotFound ||
		e.Code == ErrCodeWithdrawalNotFound ||
		e.Code == ErrCodePromoNotFound
}

// IsValidation reports whether the error is a validation failure.
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation ||
		e.Code == ErrCodeInvalidAddress ||
		e.Code == ErrCodeInsufficientFunds
}

// IsInternal reports whether the error should surface as a 500.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeStorageError ||
		e.Code == ErrCodeCacheError
}

// WithDetail attaches structured detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID attaches the request ID to the error.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// WithUserID attaches the acting user's ID to the error.
func (e *AppError) WithUserID(userID int64) *AppError {
	e.UserID = userID
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with an application code.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewValidationError creates a field validation error.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewNotFoundError creates a "not found" error for an arbitrary resource.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// NewUserNotFoundError creates a "user not found" error.
func NewUserNotFoundError(userID int64) *AppError {
	return New(ErrCodeUserNotFound, fmt.Sprintf("User not found: %d", userID)).
		WithDetail("user_id", userID)
}

// NewUnauthorizedError creates an authorization error.
func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

// NewForbiddenError creates an access error.
func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithDetail("reason", reason)
}

// NewStorageError wraps a failed storage operation.
func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageError, fmt.Sprintf("Storage operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewCacheError wraps a failed cache operation.
func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts err to an AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
