package repository

import (
	"context"
	"errors"

	"mgb-rewards-backend/internal/features/settings/models"
)

var ErrNotFound = errors.New("app settings not found")

type SettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Save(ctx context.Context, settings *models.AppSettings) error
}
