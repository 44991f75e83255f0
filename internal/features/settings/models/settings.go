package models

import "github.com/shopspring/decimal"

// AppSettings are the operator-tunable knobs served to the Mini App.
// @Description Application settings
type AppSettings struct {
	DailyAdLimit      int             `json:"dailyAdLimit" example:"50"`
	MinimumWithdrawal decimal.Decimal `json:"minimumWithdrawal" swaggertype:"string" example:"0.5"`
	AdReward          decimal.Decimal `json:"adReward" swaggertype:"string" example:"0.0002"`
}

// UpdateRequest is the admin payload for changing settings. Zero-valued
// fields keep their current value.
type UpdateRequest struct {
	DailyAdLimit      *int    `json:"dailyAdLimit,omitempty"`
	MinimumWithdrawal *string `json:"minimumWithdrawal,omitempty"`
	AdReward          *string `json:"adReward,omitempty"`
}
