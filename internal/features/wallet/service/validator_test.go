package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validForm() WithdrawForm {
	return WithdrawForm{
		PaymentSystemID: "mgb_wallet",
		Amount:          "1.5",
		PaymentDetails:  "UQAWzEKcdnykvXfUNouqdS62tvrp32bCxuKS6eQrS6ISgZ8v",
	}
}

func TestValidateWithdrawForm_Accepts(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		balance string
		minimum string
		want    string
	}{
		{"normal", "1.5", "10", "0.5", "1.5"},
		{"exactly minimum", "0.5", "10", "0.5", "0.5"},
		{"exactly balance", "10", "10", "0.5", "10"},
		{"minimum equals balance", "0.5", "0.5", "0.5", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Amount = tt.amount

			amount, vErr := ValidateWithdrawForm(form, dec(tt.balance), dec(tt.minimum), false)
			require.Nil(t, vErr)
			assert.True(t, dec(tt.want).Equal(amount))
		})
	}
}

func TestValidateWithdrawForm_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		balance string
		minimum string
		kind    ValidationErrorKind
	}{
		{"empty amount", "", "10", "0.5", KindInvalidAmount},
		{"garbage amount", "abc", "10", "0.5", KindInvalidAmount},
		{"zero amount", "0", "10", "0.5", KindInvalidAmount},
		{"negative amount", "-1", "10", "0.5", KindInvalidAmount},
		{"just below minimum", "0.49999", "10", "0.5", KindBelowMinimum},
		{"just above balance", "10.00001", "10", "0.5", KindInsufficientBalance},
		{"zero balance", "0.5", "0", "0.5", KindInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Amount = tt.amount

			_, vErr := ValidateWithdrawForm(form, dec(tt.balance), dec(tt.minimum), false)
			require.NotNil(t, vErr)
			assert.Equal(t, tt.kind, vErr.Kind)
		})
	}
}

func TestValidateWithdrawForm_PendingBlocksEverything(t *testing.T) {
	// A pending withdrawal short-circuits before any field is looked at,
	// even when the rest of the form is valid.
	form := validForm()
	_, vErr := ValidateWithdrawForm(form, dec("10"), dec("0.5"), true)
	require.NotNil(t, vErr)
	assert.Equal(t, KindPendingExists, vErr.Kind)
	assert.Equal(t, "Cannot create new request until current one is processed", vErr.Message)

	// Still the pending error when the amount is garbage too.
	form.Amount = "not-a-number"
	_, vErr = ValidateWithdrawForm(form, dec("10"), dec("0.5"), true)
	require.NotNil(t, vErr)
	assert.Equal(t, KindPendingExists, vErr.Kind)
}

func TestValidateWithdrawForm_BelowMinimumCarriesMinimum(t *testing.T) {
	form := validForm()
	form.Amount = "0.1"

	_, vErr := ValidateWithdrawForm(form, dec("10"), dec("0.5"), false)
	require.NotNil(t, vErr)
	assert.Equal(t, KindBelowMinimum, vErr.Kind)
	assert.True(t, dec("0.5").Equal(vErr.Minimum))
	assert.Equal(t, "Minimum withdrawal amount is 0.5 TON", vErr.Message)
}

func TestValidateWithdrawForm_MissingDestination(t *testing.T) {
	form := validForm()
	form.PaymentDetails = "   "

	_, vErr := ValidateWithdrawForm(form, dec("10"), dec("0.5"), false)
	require.NotNil(t, vErr)
	assert.Equal(t, KindMissingDestination, vErr.Kind)
	assert.Equal(t, "Please set up your TON wallet address first", vErr.Message)
}

func TestValidateWithdrawForm_OrderOfChecks(t *testing.T) {
	// Amount problems win over a blank destination.
	form := validForm()
	form.Amount = "0"
	form.PaymentDetails = ""

	_, vErr := ValidateWithdrawForm(form, dec("10"), dec("0.5"), false)
	require.NotNil(t, vErr)
	assert.Equal(t, KindInvalidAmount, vErr.Kind)

	// Minimum is checked before balance.
	form = validForm()
	form.Amount = "0.2"
	_, vErr = ValidateWithdrawForm(form, dec("0.1"), dec("0.5"), false)
	require.NotNil(t, vErr)
	assert.Equal(t, KindBelowMinimum, vErr.Kind)
}
