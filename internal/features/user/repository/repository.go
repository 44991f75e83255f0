package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"mgb-rewards-backend/internal/features/user/models"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// CreditBalance adds amount to the user's balance and records it
	// under the given earning source for stats.
	CreditBalance(ctx context.Context, id int64, amount decimal.Decimal, source string) error

	// DebitBalance subtracts amount; fails when the balance is lower.
	DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error

	TodayEarnings(ctx context.Context, id int64) (decimal.Decimal, error)
	ReferralEarnings(ctx context.Context, id int64) (decimal.Decimal, error)
}
