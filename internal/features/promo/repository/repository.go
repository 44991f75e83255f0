package repository

import (
	"context"
	"errors"

	"mgb-rewards-backend/internal/features/promo/models"
)

var ErrNotFound = errors.New("promo code not found")

type PromoRepository interface {
	Get(ctx context.Context, code string) (*models.PromoCode, error)
	Save(ctx context.Context, promo *models.PromoCode) error

	// MarkRedeemed records the user's redemption; reports false when the
	// user already redeemed this code.
	MarkRedeemed(ctx context.Context, code string, userID int64) (bool, error)

	// IncrementActivations atomically bumps the activation counter and
	// returns the new total. The caller compares it against the cap.
	IncrementActivations(ctx context.Context, code string) (int, error)

	// RollbackActivation undoes a redemption that could not be
	// completed: the user's redeemed mark and the counter bump.
	RollbackActivation(ctx context.Context, code string, userID int64) error
}
