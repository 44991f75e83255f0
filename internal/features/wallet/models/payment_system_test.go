package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPaymentSystems(t *testing.T) {
	systems := PaymentSystems()
	require.NotEmpty(t, systems)

	seen := make(map[string]bool)
	for _, ps := range systems {
		assert.False(t, seen[ps.ID], "duplicate id %s", ps.ID)
		seen[ps.ID] = true
	}

	// Mutating the returned slice must not touch the catalog.
	systems[0].Name = "changed"
	ps, ok := FindPaymentSystem(systems[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "changed", ps.Name)
}

func TestFindPaymentSystem(t *testing.T) {
	ps, ok := FindPaymentSystem("mgb_wallet")
	require.True(t, ok)
	assert.Equal(t, "MGB Wallet", ps.Name)
	assert.Equal(t, FeeTypeFixed, ps.FeeType)
	assert.True(t, ps.Fee.IsZero())

	_, ok = FindPaymentSystem("does_not_exist")
	assert.False(t, ok)
}

func TestFee(t *testing.T) {
	percentage := &PaymentSystem{Fee: dec("2.5"), FeeType: FeeTypePercentage}
	fixed := &PaymentSystem{Fee: dec("0.1"), FeeType: FeeTypeFixed}

	tests := []struct {
		name   string
		amount string
		ps     *PaymentSystem
		want   string
	}{
		{"nil system charges nothing", "100", nil, "0"},
		{"percentage of amount", "100", percentage, "2.5"},
		{"percentage of zero", "0", percentage, "0"},
		{"fixed ignores amount", "100", fixed, "0.1"},
		{"fixed on small amount", "0.05", fixed, "0.1"},
		{"zero fee", "100", &PaymentSystem{FeeType: FeeTypeFixed}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fee(dec(tt.amount), tt.ps)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNetAmount(t *testing.T) {
	percentage := &PaymentSystem{Fee: dec("10"), FeeType: FeeTypePercentage}
	fixed := &PaymentSystem{Fee: dec("0.5"), FeeType: FeeTypeFixed}

	assert.True(t, dec("90").Equal(NetAmount(dec("100"), percentage)))
	assert.True(t, dec("99.5").Equal(NetAmount(dec("100"), fixed)))
	assert.True(t, dec("1").Equal(NetAmount(dec("1"), nil)))

	// A fixed fee above the amount goes negative, deliberately unclamped.
	assert.True(t, dec("-0.4").Equal(NetAmount(dec("0.1"), fixed)))
}
