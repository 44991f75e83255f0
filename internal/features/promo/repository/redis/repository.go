package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"mgb-rewards-backend/internal/features/promo/models"
	"mgb-rewards-backend/internal/features/promo/repository"
)

type promoRepository struct {
	client *redis.Client
}

func NewPromoRepository(client *redis.Client) repository.PromoRepository {
	return &promoRepository{client: client}
}

func promoKey(code string) string {
	return fmt.Sprintf("promo:%s", strings.ToUpper(code))
}

func redeemedKey(code string) string {
	return fmt.Sprintf("promo:redeemed:%s", strings.ToUpper(code))
}

// Activations live in their own key so INCR keeps the count exact under
// concurrent redemptions.
func activationsKey(code string) string {
	return fmt.Sprintf("promo:activations:%s", strings.ToUpper(code))
}

func (r *promoRepository) Get(ctx context.Context, code string) (*models.PromoCode, error) {
	promoJSON, err := r.client.Get(ctx, promoKey(code)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var promo models.PromoCode
	if err := json.Unmarshal(promoJSON, &promo); err != nil {
		return nil, err
	}

	count, err := r.client.Get(ctx, activationsKey(code)).Int()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	promo.Activations = count
	return &promo, nil
}

func (r *promoRepository) Save(ctx context.Context, promo *models.PromoCode) error {
	promoJSON, err := json.Marshal(promo)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, promoKey(promo.Code), promoJSON, 0).Err()
}

func (r *promoRepository) MarkRedeemed(ctx context.Context, code string, userID int64) (bool, error) {
	added, err := r.client.SAdd(ctx, redeemedKey(code), userID).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (r *promoRepository) IncrementActivations(ctx context.Context, code string) (int, error) {
	count, err := r.client.Incr(ctx, activationsKey(code)).Result()
	return int(count), err
}

func (r *promoRepository) RollbackActivation(ctx context.Context, code string, userID int64) error {
	pipe := r.client.TxPipeline()
	pipe.SRem(ctx, redeemedKey(code), userID)
	pipe.Decr(ctx, activationsKey(code))
	_, err := pipe.Exec(ctx)
	return err
}
