package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromoCode is a redeemable reward code. MaxActivations of zero means
// unlimited.
type PromoCode struct {
	Code           string          `json:"code" example:"WELCOME"`
	Reward         decimal.Decimal `json:"reward" swaggertype:"string" example:"0.0002"`
	MaxActivations int             `json:"maxActivations" example:"100"`
	Activations    int             `json:"activations"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// RedeemRequest is the payload for redeeming a code.
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemResponse reports a successful redemption.
type RedeemResponse struct {
	Success bool            `json:"success"`
	Reward  decimal.Decimal `json:"reward" swaggertype:"string"`
}

// CreateRequest is the admin payload for creating a code.
type CreateRequest struct {
	Code           string `json:"code" binding:"required"`
	Reward         string `json:"reward" binding:"required"`
	MaxActivations int    `json:"maxActivations"`
}
