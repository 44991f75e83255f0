package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"mgb-rewards-backend/internal/common/currency"
)

// WithdrawForm is the transient form state a withdrawal is submitted
// with. Amount stays a string until validation parses it.
type WithdrawForm struct {
	PaymentSystemID string
	Amount          string
	PaymentDetails  string
	Comment         string
}

// ValidateWithdrawForm decides whether a withdrawal form is submittable.
// Purely local and synchronous; the checks run in a fixed order and stop
// at the first failure:
//
//  1. a pending withdrawal blocks everything else
//  2. the amount must parse and be positive
//  3. the amount must reach the minimum (boundary inclusive)
//  4. the amount must not exceed the balance (boundary inclusive)
//  5. the destination address must not be blank
//
// On success the parsed amount is returned.
func ValidateWithdrawForm(form WithdrawForm, balance, minimum decimal.Decimal, hasPending bool) (decimal.Decimal, *ValidationError) {
	if hasPending {
		return decimal.Zero, newValidationError(KindPendingExists,
			"Cannot create new request until current one is processed")
	}

	amount := currency.ParseAmount(form.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, newValidationError(KindInvalidAmount,
			"Please enter a valid amount")
	}
	if amount.LessThan(minimum) {
		return decimal.Zero, newBelowMinimumError(minimum)
	}
	if amount.GreaterThan(balance) {
		return decimal.Zero, newValidationError(KindInsufficientBalance,
			"Insufficient balance")
	}

	if strings.TrimSpace(form.PaymentDetails) == "" {
		return decimal.Zero, newValidationError(KindMissingDestination,
			"Please set up your TON wallet address first")
	}

	return amount, nil
}
