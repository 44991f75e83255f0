package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mgb-rewards-backend/internal/features/wallet/models"
	"mgb-rewards-backend/internal/features/wallet/repository"
)

type walletRepository struct {
	client *redis.Client
}

func NewWalletRepository(client *redis.Client) repository.WalletRepository {
	return &walletRepository{client: client}
}

func walletKey(userID int64) string {
	return fmt.Sprintf("wallet:%d", userID)
}

func withdrawalKey(id string) string {
	return fmt.Sprintf("withdrawal:%s", id)
}

func userWithdrawalsKey(userID int64) string {
	return fmt.Sprintf("user:%d:withdrawals", userID)
}

func pendingSlotKey(userID int64) string {
	return fmt.Sprintf("user:%d:withdrawals:pending", userID)
}

func (r *walletRepository) GetWalletDetails(ctx context.Context, userID int64) (*models.WalletDetails, error) {
	detailsJSON, err := r.client.Get(ctx, walletKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrWalletNotFound
		}
		return nil, err
	}

	var details models.WalletDetails
	if err := json.Unmarshal(detailsJSON, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (r *walletRepository) SaveWalletDetails(ctx context.Context, userID int64, details *models.WalletDetails) error {
	now := time.Now()
	details.WalletUpdatedAt = &now

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, walletKey(userID), detailsJSON, 0).Err()
}

func (r *walletRepository) ClaimPendingSlot(ctx context.Context, userID int64) (bool, error) {
	return r.client.SetNX(ctx, pendingSlotKey(userID), 1, 0).Result()
}

func (r *walletRepository) ReleasePendingSlot(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, pendingSlotKey(userID)).Err()
}

func (r *walletRepository) CreateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error {
	withdrawalJSON, err := json.Marshal(withdrawal)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, withdrawalKey(withdrawal.ID), withdrawalJSON, 0)
	pipe.SAdd(ctx, userWithdrawalsKey(withdrawal.UserID), withdrawal.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *walletRepository) GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	withdrawalJSON, err := r.client.Get(ctx, withdrawalKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrWithdrawalNotFound
		}
		return nil, err
	}

	var withdrawal models.Withdrawal
	if err := json.Unmarshal(withdrawalJSON, &withdrawal); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (r *walletRepository) UpdateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error {
	withdrawal.UpdatedAt = time.Now()
	withdrawalJSON, err := json.Marshal(withdrawal)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, withdrawalKey(withdrawal.ID), withdrawalJSON, 0).Err()
}

func (r *walletRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Withdrawal, error) {
	ids, err := r.client.SMembers(ctx, userWithdrawalsKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	withdrawals := make([]*models.Withdrawal, 0, len(ids))
	for _, id := range ids {
		withdrawal, err := r.GetWithdrawal(ctx, id)
		if err != nil {
			// Index entries without a record are skipped, not fatal.
			continue
		}
		withdrawals = append(withdrawals, withdrawal)
	}
	return withdrawals, nil
}

func (r *walletRepository) ListAll(ctx context.Context) ([]*models.Withdrawal, error) {
	var withdrawals []*models.Withdrawal
	iter := r.client.Scan(ctx, 0, "withdrawal:*", 0).Iterator()

	for iter.Next(ctx) {
		withdrawalJSON, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var withdrawal models.Withdrawal
		if err := json.Unmarshal(withdrawalJSON, &withdrawal); err != nil {
			continue
		}
		withdrawals = append(withdrawals, &withdrawal)
	}
	return withdrawals, iter.Err()
}
