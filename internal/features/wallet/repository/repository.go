package repository

import (
	"context"
	"errors"

	"mgb-rewards-backend/internal/features/wallet/models"
)

var (
	ErrWalletNotFound     = errors.New("wallet details not found")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
)

type WalletRepository interface {
	GetWalletDetails(ctx context.Context, userID int64) (*models.WalletDetails, error)
	SaveWalletDetails(ctx context.Context, userID int64, details *models.WalletDetails) error

	// ClaimPendingSlot atomically marks the user as having a pending
	// withdrawal; reports false when the slot is already taken. The slot
	// is released when the withdrawal reaches a terminal state.
	ClaimPendingSlot(ctx context.Context, userID int64) (bool, error)
	ReleasePendingSlot(ctx context.Context, userID int64) error

	CreateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error
	GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error
	ListByUser(ctx context.Context, userID int64) ([]*models.Withdrawal, error)
	ListAll(ctx context.Context) ([]*models.Withdrawal, error)
}
