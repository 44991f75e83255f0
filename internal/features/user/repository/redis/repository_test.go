package redis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEarnings(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		amount string
		want   string
	}{
		{"empty counter is zero", "", "0.0002", "0.0002"},
		{"accumulates exactly", "0.0002", "0.0002", "0.0004"},
		{"no binary float drift", "0.1", "0.2", "0.3"},
		{"many small rewards stay exact", "0.0098", "0.0002", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := addEarnings(tt.raw, decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := addEarnings("not-a-number", decimal.RequireFromString("1"))
	assert.Error(t, err)
}

func TestAddEarningsRepeated(t *testing.T) {
	// 0.0002 credited 50 times must land on exactly 0.01, the kind of
	// sum that drifts when accumulated as a binary float.
	raw := ""
	reward := decimal.RequireFromString("0.0002")
	for i := 0; i < 50; i++ {
		var err error
		raw, err = addEarnings(raw, reward)
		require.NoError(t, err)
	}
	assert.Equal(t, "0.01", raw)
}
