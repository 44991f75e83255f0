package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"mgb-rewards-backend/internal/features/user/models"
	"mgb-rewards-backend/internal/features/user/repository"
)

const (
	balanceRetries    = 3
	earningsRetention = 48 * time.Hour
)

type userRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func earningsKey(id int64, day time.Time) string {
	return fmt.Sprintf("user:%d:earnings:%s", id, day.UTC().Format("2006-01-02"))
}

func referralEarningsKey(id int64) string {
	return fmt.Sprintf("user:%d:earnings:referral", id)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userKey(user.ID), userJSON, 0).Err()
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	userJSON, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	return r.Create(ctx, user)
}

func (r *userRepository) CreditBalance(ctx context.Context, id int64, amount decimal.Decimal, source string) error {
	if err := r.mutateBalance(ctx, id, func(balance decimal.Decimal) (decimal.Decimal, error) {
		return balance.Add(amount), nil
	}); err != nil {
		return err
	}
	return r.recordEarnings(ctx, id, amount, source)
}

func (r *userRepository) DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	return r.mutateBalance(ctx, id, func(balance decimal.Decimal) (decimal.Decimal, error) {
		if balance.LessThan(amount) {
			return decimal.Zero, repository.ErrInsufficientBalance
		}
		return balance.Sub(amount), nil
	})
}

// mutateBalance applies fn to the stored balance under a WATCH so two
// concurrent mutations cannot lose an update.
func (r *userRepository) mutateBalance(ctx context.Context, id int64, fn func(decimal.Decimal) (decimal.Decimal, error)) error {
	key := userKey(id)

	txf := func(tx *redis.Tx) error {
		userJSON, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return repository.ErrNotFound
			}
			return err
		}

		var user models.User
		if err := json.Unmarshal(userJSON, &user); err != nil {
			return err
		}

		balance, err := fn(user.Balance)
		if err != nil {
			return err
		}
		user.Balance = balance
		user.UpdatedAt = time.Now()

		updated, err := json.Marshal(&user)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < balanceRetries; i++ {
		err = r.client.Watch(ctx, txf, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return err
}

// addEarnings accumulates a decimal amount onto a stored counter string.
// An empty counter is zero. Float arithmetic never touches the value.
func addEarnings(raw string, amount decimal.Decimal) (string, error) {
	current := decimal.Zero
	if raw != "" {
		var err error
		current, err = decimal.NewFromString(raw)
		if err != nil {
			return "", err
		}
	}
	return current.Add(amount).String(), nil
}

func (r *userRepository) recordEarnings(ctx context.Context, id int64, amount decimal.Decimal, source string) error {
	if source == models.SourceRefund {
		return nil
	}

	key := earningsKey(id, time.Now())
	ttl := earningsRetention
	if source == models.SourceReferral {
		key = referralEarningsKey(id)
		ttl = 0
	}

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		total, err := addEarnings(raw, amount)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, total, ttl)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < balanceRetries; i++ {
		err = r.client.Watch(ctx, txf, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return err
}

func (r *userRepository) TodayEarnings(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.readEarnings(ctx, earningsKey(id, time.Now()))
}

func (r *userRepository) ReferralEarnings(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.readEarnings(ctx, referralEarningsKey(id))
}

func (r *userRepository) readEarnings(ctx context.Context, key string) (decimal.Decimal, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	earned, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return earned, nil
}
