package models

import "github.com/shopspring/decimal"

// FeeType selects how a payment system's fee is applied.
type FeeType string

const (
	FeeTypeFixed      FeeType = "fixed"
	FeeTypePercentage FeeType = "percentage"
)

// PaymentSystem is an immutable withdrawal destination with its own
// minimum-withdrawal and fee policy.
// @Description Withdrawal destination with fee policy
type PaymentSystem struct {
	ID            string          `json:"id" example:"mgb_wallet"`
	Name          string          `json:"name" example:"MGB Wallet"`
	Emoji         string          `json:"emoji" example:"💎"`
	MinWithdrawal decimal.Decimal `json:"minWithdrawal" swaggertype:"string" example:"0"`
	Fee           decimal.Decimal `json:"fee" swaggertype:"string" example:"0"`
	FeeType       FeeType         `json:"feeType" enums:"fixed,percentage"`
}

// The catalog is fixed at compile time. IDs must stay unique.
var paymentSystems = []PaymentSystem{
	{
		ID:            "mgb_wallet",
		Name:          "MGB Wallet",
		Emoji:         "💎",
		MinWithdrawal: decimal.Zero,
		Fee:           decimal.Zero,
		FeeType:       FeeTypeFixed,
	},
}

// PaymentSystems returns the supported payment systems in display order.
func PaymentSystems() []PaymentSystem {
	out := make([]PaymentSystem, len(paymentSystems))
	copy(out, paymentSystems)
	return out
}

// FindPaymentSystem looks a system up by exact ID. Absence means "no fee
// schedule known", not an error.
func FindPaymentSystem(id string) (PaymentSystem, bool) {
	for _, ps := range paymentSystems {
		if ps.ID == id {
			return ps, true
		}
	}
	return PaymentSystem{}, false
}

// Fee computes the withdrawal fee for the given amount. A nil system
// charges nothing.
func Fee(amount decimal.Decimal, ps *PaymentSystem) decimal.Decimal {
	if ps == nil {
		return decimal.Zero
	}
	if ps.FeeType == FeeTypePercentage {
		return amount.Mul(ps.Fee).Div(decimal.NewFromInt(100))
	}
	return ps.Fee
}

// NetAmount is what the user actually receives after the fee. It is not
// clamped: a fixed fee above the amount yields a negative net.
func NetAmount(amount decimal.Decimal, ps *PaymentSystem) decimal.Decimal {
	return amount.Sub(Fee(amount, ps))
}
