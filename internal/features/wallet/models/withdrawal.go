package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the canonical status set. Legacy backend spellings
// are normalized at the ingest boundary; internal logic only ever sees
// these variants.
type WithdrawalStatus string

const (
	StatusPending  WithdrawalStatus = "pending"
	StatusPaid     WithdrawalStatus = "paid"
	StatusRejected WithdrawalStatus = "rejected"
	StatusUnknown  WithdrawalStatus = "unknown"
)

// statusAliases maps every spelling observed in stored data to its
// canonical status.
var statusAliases = map[string]WithdrawalStatus{
	"pending":     StatusPending,
	"paid":        StatusPaid,
	"Approved":    StatusPaid,
	"Successfull": StatusPaid,
	"rejected":    StatusRejected,
}

// NormalizeStatus maps a raw status string to its canonical variant.
func NormalizeStatus(raw string) WithdrawalStatus {
	if status, ok := statusAliases[raw]; ok {
		return status
	}
	return StatusUnknown
}

// Label is the user-facing status text.
func (s WithdrawalStatus) Label() string {
	switch s {
	case StatusPaid:
		return "Successful"
	case StatusPending:
		return "Pending"
	case StatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the request has reached a final state.
func (s WithdrawalStatus) Terminal() bool {
	return s == StatusPaid || s == StatusRejected
}

// Withdrawal is a withdrawal request. Created once a validated form is
// submitted; its status is thereafter mutated only by the admin workflow.
type Withdrawal struct {
	ID         string           `json:"id"`
	UserID     int64            `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount" swaggertype:"string"`
	Method     string           `json:"method" example:"mgb_wallet"`
	Status     WithdrawalStatus `json:"status"`
	Details    string           `json:"details"`
	Comment    string           `json:"comment,omitempty"`
	AdminNotes string           `json:"adminNotes,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt,omitempty"`
}

// WithdrawalResponse is a withdrawal as served to the Mini App, with the
// display fields precomputed.
// @Description Withdrawal request with display formatting
type WithdrawalResponse struct {
	ID          string           `json:"id"`
	Amount      decimal.Decimal  `json:"amount" swaggertype:"string"`
	AmountMGB   int64            `json:"amount_mgb"`
	Method      string           `json:"method"`
	Status      WithdrawalStatus `json:"status"`
	StatusLabel string           `json:"statusLabel"`
	Details     string           `json:"details"`
	AdminNotes  string           `json:"adminNotes,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	DisplayDate string           `json:"displayDate"`
}

// WithdrawRequest is the submit-withdrawal payload. Amount arrives as a
// string straight from the form; parsing happens in validation.
type WithdrawRequest struct {
	Amount          string `json:"amount" binding:"required"`
	PaymentSystemID string `json:"paymentSystemId" binding:"required"`
	PaymentDetails  string `json:"paymentDetails"`
	Comment         string `json:"comment"`
}

// StatusUpdateRequest is the admin payload for resolving a request.
type StatusUpdateRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}
