package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want WithdrawalStatus
	}{
		{"pending", StatusPending},
		{"paid", StatusPaid},
		{"Approved", StatusPaid},
		{"Successfull", StatusPaid},
		{"rejected", StatusRejected},
		{"", StatusUnknown},
		{"PAID", StatusUnknown},
		{"approved", StatusUnknown},
		{"done", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

func TestWithdrawalStatusLabel(t *testing.T) {
	assert.Equal(t, "Successful", StatusPaid.Label())
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "Rejected", StatusRejected.Label())
	assert.Equal(t, "Unknown", StatusUnknown.Label())
	assert.Equal(t, "Unknown", WithdrawalStatus("whatever").Label())
}

func TestWithdrawalStatusTerminal(t *testing.T) {
	assert.True(t, StatusPaid.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusUnknown.Terminal())
}
