package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the account record. Balance is denominated in TON and is only
// ever mutated server-side, in response to completed actions or
// withdrawal processing.
type User struct {
	ID           int64           `json:"id" example:"123456789"`
	Username     string          `json:"username" example:"johndoe"`
	FirstName    string          `json:"first_name" example:"John"`
	LastName     string          `json:"last_name" example:"Doe"`
	Balance      decimal.Decimal `json:"balance" swaggertype:"string" example:"0.0002"`
	ReferralCode string          `json:"referralCode" example:"A1B2C3D4"`
	Role         string          `json:"role" example:"user" enums:"user,admin"`
	Status       string          `json:"status" example:"active" enums:"active,banned"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// UserResponse is the shape served to the Mini App.
// @Description Authenticated user with balance
type UserResponse struct {
	ID           int64           `json:"id" example:"123456789"`
	TelegramID   string          `json:"telegram_id" example:"123456789"`
	Username     string          `json:"username" example:"johndoe"`
	Balance      decimal.Decimal `json:"balance" swaggertype:"string" example:"0.0002"`
	BalanceMGB   int64           `json:"balance_mgb" example:"100"`
	ReferralCode string          `json:"referralCode" example:"A1B2C3D4"`
	Role         string          `json:"role" example:"user"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StatsResponse carries the income figures for the home dashboard.
// @Description Earning statistics for the current user
type StatsResponse struct {
	TodayEarnings    decimal.Decimal `json:"todayEarnings" swaggertype:"string" example:"0.0004"`
	ReferralEarnings decimal.Decimal `json:"referralEarnings" swaggertype:"string" example:"0"`
}

// Earning sources tracked for stats counters.
const (
	SourceAd       = "ad"
	SourceTask     = "task"
	SourcePromo    = "promo"
	SourceReferral = "referral"
	SourceRefund   = "refund"
)
