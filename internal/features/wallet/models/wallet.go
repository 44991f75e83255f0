package models

import "time"

// WalletDetails is the user's saved payout destination. Pre-fills the
// withdrawal form's details field.
// @Description Saved TON wallet details
type WalletDetails struct {
	TonWalletAddress string     `json:"tonWalletAddress"`
	WalletUpdatedAt  *time.Time `json:"walletUpdatedAt,omitempty"`
	CanWithdraw      bool       `json:"canWithdraw"`
}

// SaveWalletRequest is the payload for saving wallet details.
type SaveWalletRequest struct {
	TonWalletAddress string `json:"tonWalletAddress" binding:"required"`
}

// WalletDetailsResponse wraps wallet details in the envelope the client
// expects.
type WalletDetailsResponse struct {
	Success       bool          `json:"success"`
	WalletDetails WalletDetails `json:"walletDetails"`
}

// WithdrawalsResponse wraps the withdrawal history list.
type WithdrawalsResponse struct {
	Success     bool                 `json:"success"`
	Withdrawals []WithdrawalResponse `json:"withdrawals"`
}
