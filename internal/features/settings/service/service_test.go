package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mgb-rewards-backend/internal/features/settings/models"
	"mgb-rewards-backend/internal/features/settings/repository"
)

// passCache always misses and serves straight from the setter.
type passCache struct {
	invalidations int
}

func (c *passCache) GetOrSet(_ context.Context, _ string, dest interface{}, _ time.Duration, setter func() (interface{}, error)) error {
	value, err := setter()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *passCache) InvalidateSettings(context.Context) error {
	c.invalidations++
	return nil
}

type fakeRepo struct {
	settings *models.AppSettings
}

func (r *fakeRepo) Get(context.Context) (*models.AppSettings, error) {
	if r.settings == nil {
		return nil, repository.ErrNotFound
	}
	return r.settings, nil
}

func (r *fakeRepo) Save(_ context.Context, settings *models.AppSettings) error {
	r.settings = settings
	return nil
}

func testDefaults() models.AppSettings {
	return models.AppSettings{
		DailyAdLimit:      50,
		MinimumWithdrawal: decimal.RequireFromString("0.5"),
		AdReward:          decimal.RequireFromString("0.0002"),
	}
}

func TestGetServesDefaultsUntilSaved(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewSettingsService(repo, &passCache{}, testDefaults())

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, settings.DailyAdLimit)
	assert.True(t, decimal.RequireFromString("0.5").Equal(settings.MinimumWithdrawal))
	assert.True(t, decimal.RequireFromString("0.0002").Equal(settings.AdReward))

	repo.settings = &models.AppSettings{
		DailyAdLimit:      10,
		MinimumWithdrawal: decimal.RequireFromString("1"),
		AdReward:          decimal.RequireFromString("0.001"),
	}
	settings, err = svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, settings.DailyAdLimit)
}

func TestUpdate(t *testing.T) {
	repo := &fakeRepo{}
	cache := &passCache{}
	svc := NewSettingsService(repo, cache, testDefaults())

	limit := 25
	minimum := "1.5"
	updated, err := svc.Update(context.Background(), &models.UpdateRequest{
		DailyAdLimit:      &limit,
		MinimumWithdrawal: &minimum,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.DailyAdLimit)
	assert.True(t, decimal.RequireFromString("1.5").Equal(updated.MinimumWithdrawal))
	// Untouched field keeps its default.
	assert.True(t, decimal.RequireFromString("0.0002").Equal(updated.AdReward))

	require.NotNil(t, repo.settings)
	assert.Equal(t, 25, repo.settings.DailyAdLimit)
	assert.Equal(t, 1, cache.invalidations)
}

func TestUpdateRejectsBadValues(t *testing.T) {
	svc := NewSettingsService(&fakeRepo{}, &passCache{}, testDefaults())

	negative := -1
	_, err := svc.Update(context.Background(), &models.UpdateRequest{DailyAdLimit: &negative})
	assert.Error(t, err)

	garbage := "abc"
	_, err = svc.Update(context.Background(), &models.UpdateRequest{MinimumWithdrawal: &garbage})
	assert.Error(t, err)

	negativeReward := "-0.1"
	_, err = svc.Update(context.Background(), &models.UpdateRequest{AdReward: &negativeReward})
	assert.Error(t, err)
}
