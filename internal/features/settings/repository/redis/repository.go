package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"mgb-rewards-backend/internal/features/settings/models"
	"mgb-rewards-backend/internal/features/settings/repository"
)

const settingsKey = "app:settings"

type settingsRepository struct {
	client *redis.Client
}

func NewSettingsRepository(client *redis.Client) repository.SettingsRepository {
	return &settingsRepository{client: client}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.AppSettings, error) {
	settingsJSON, err := r.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var settings models.AppSettings
	if err := json.Unmarshal(settingsJSON, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *models.AppSettings) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, settingsKey, settingsJSON, 0).Err()
}
