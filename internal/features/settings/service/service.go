package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"mgb-rewards-backend/internal/common/logger"
	"mgb-rewards-backend/internal/features/settings/models"
	"mgb-rewards-backend/internal/features/settings/repository"
)

const (
	settingsCacheKey = "cache:app_settings"
	settingsCacheTTL = 30 * time.Second
)

type SettingsService interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, req *models.UpdateRequest) (*models.AppSettings, error)
}

// Cache is the slice of the shared cache service this feature needs.
// Satisfied by cache.Service.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, setter func() (interface{}, error)) error
	InvalidateSettings(ctx context.Context) error
}

type settingsService struct {
	repo     repository.SettingsRepository
	cache    Cache
	defaults models.AppSettings
}

// NewSettingsService builds the settings service. defaults are served
// until an admin saves settings explicitly.
func NewSettingsService(repo repository.SettingsRepository, cacheService Cache, defaults models.AppSettings) SettingsService {
	return &settingsService{repo: repo, cache: cacheService, defaults: defaults}
}

func (s *settingsService) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := s.cache.GetOrSet(ctx, settingsCacheKey, &settings, settingsCacheTTL, func() (interface{}, error) {
		stored, err := s.repo.Get(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &s.defaults, nil
			}
			return nil, err
		}
		return stored, nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsService) Update(ctx context.Context, req *models.UpdateRequest) (*models.AppSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.DailyAdLimit != nil {
		if *req.DailyAdLimit < 0 {
			return nil, errors.New("dailyAdLimit must not be negative")
		}
		settings.DailyAdLimit = *req.DailyAdLimit
	}
	if req.MinimumWithdrawal != nil {
		minimum, err := decimal.NewFromString(*req.MinimumWithdrawal)
		if err != nil || minimum.IsNegative() {
			return nil, errors.New("minimumWithdrawal must be a non-negative decimal")
		}
		settings.MinimumWithdrawal = minimum
	}
	if req.AdReward != nil {
		reward, err := decimal.NewFromString(*req.AdReward)
		if err != nil || reward.IsNegative() {
			return nil, errors.New("adReward must be a non-negative decimal")
		}
		settings.AdReward = reward
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateSettings(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate settings cache")
	}
	return settings, nil
}
