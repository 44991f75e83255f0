package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Custom errors for wallet service
var (
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrWithdrawalResolved = errors.New("withdrawal is already resolved")
	ErrInvalidStatus      = errors.New("unknown withdrawal status")
	ErrInvalidAddress     = errors.New("invalid TON wallet address")
	ErrWithdrawDisabled   = errors.New("withdrawals are disabled for this account")
)

// ValidationErrorKind distinguishes the reject reasons of the
// withdrawal form validator.
type ValidationErrorKind string

const (
	KindPendingExists       ValidationErrorKind = "pending_exists"
	KindInvalidAmount       ValidationErrorKind = "invalid_amount"
	KindBelowMinimum        ValidationErrorKind = "below_minimum"
	KindInsufficientBalance ValidationErrorKind = "insufficient_balance"
	KindMissingDestination  ValidationErrorKind = "missing_destination"
)

// ValidationError is a withdrawal form rejection with a user-facing
// message. BelowMinimum carries the minimum for message formatting.
type ValidationError struct {
	Kind    ValidationErrorKind
	Message string
	Minimum decimal.Decimal
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(kind ValidationErrorKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

func newBelowMinimumError(minimum decimal.Decimal) *ValidationError {
	return &ValidationError{
		Kind:    KindBelowMinimum,
		Message: fmt.Sprintf("Minimum withdrawal amount is %s TON", minimum.String()),
		Minimum: minimum,
	}
}

// AsValidationError converts err to a ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
