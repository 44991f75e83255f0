package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mgb-rewards-backend/internal/features/user/models"
	"mgb-rewards-backend/internal/features/user/repository"
)

type fakeRepo struct {
	users    map[int64]*models.User
	earnings map[int64]map[string]decimal.Decimal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[int64]*models.User),
		earnings: make(map[int64]map[string]decimal.Decimal),
	}
}

func (r *fakeRepo) Create(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeRepo) CreditBalance(_ context.Context, id int64, amount decimal.Decimal, source string) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Balance = user.Balance.Add(amount)
	if r.earnings[id] == nil {
		r.earnings[id] = make(map[string]decimal.Decimal)
	}
	r.earnings[id][source] = r.earnings[id][source].Add(amount)
	return nil
}

func (r *fakeRepo) DebitBalance(_ context.Context, id int64, amount decimal.Decimal) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if user.Balance.LessThan(amount) {
		return repository.ErrInsufficientBalance
	}
	user.Balance = user.Balance.Sub(amount)
	return nil
}

func (r *fakeRepo) TodayEarnings(_ context.Context, id int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	for source, amount := range r.earnings[id] {
		if source != models.SourceReferral {
			total = total.Add(amount)
		}
	}
	return total, nil
}

func (r *fakeRepo) ReferralEarnings(_ context.Context, id int64) (decimal.Decimal, error) {
	return r.earnings[id][models.SourceReferral], nil
}

func TestGetOrCreateUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewUserService(repo)

	created, err := svc.GetOrCreateUser(context.Background(), 42, "johndoe", "John", "Doe")
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "42", created.TelegramID)
	assert.Equal(t, "johndoe", created.Username)
	assert.True(t, created.Balance.IsZero())
	assert.Equal(t, int64(0), created.BalanceMGB)
	assert.Equal(t, "user", created.Role)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), created.ReferralCode)

	// Second call is a lookup, not a create; the referral code survives.
	again, err := svc.GetOrCreateUser(context.Background(), 42, "johndoe", "John", "Doe")
	require.NoError(t, err)
	assert.Equal(t, created.ReferralCode, again.ReferralCode)
	assert.Len(t, repo.users, 1)
}

func TestGetOrCreateUserRefreshesProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewUserService(repo)

	_, err := svc.GetOrCreateUser(context.Background(), 42, "oldname", "John", "Doe")
	require.NoError(t, err)

	updated, err := svc.GetOrCreateUser(context.Background(), 42, "newname", "John", "Doe")
	require.NoError(t, err)
	assert.Equal(t, "newname", updated.Username)
	assert.Equal(t, "newname", repo.users[42].Username)
}

func TestGetUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewUserService(repo)

	_, err := svc.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	repo.users[42] = &models.User{ID: 42, Balance: decimal.RequireFromString("0.0002")}
	user, err := svc.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.BalanceMGB)
}

func TestCredit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewUserService(repo)
	repo.users[42] = &models.User{ID: 42}

	err := svc.Credit(context.Background(), 42, decimal.RequireFromString("0.0002"), models.SourceAd)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.0002").Equal(repo.users[42].Balance))

	err = svc.Credit(context.Background(), 42, decimal.Zero, models.SourceAd)
	assert.Error(t, err, "zero credit rejected")

	err = svc.Credit(context.Background(), 42, decimal.RequireFromString("-1"), models.SourceAd)
	assert.Error(t, err, "negative credit rejected")

	err = svc.Credit(context.Background(), 99, decimal.RequireFromString("1"), models.SourceAd)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetStats(t *testing.T) {
	repo := newFakeRepo()
	svc := NewUserService(repo)
	repo.users[42] = &models.User{ID: 42}

	require.NoError(t, svc.Credit(context.Background(), 42, decimal.RequireFromString("0.0002"), models.SourceAd))
	require.NoError(t, svc.Credit(context.Background(), 42, decimal.RequireFromString("0.0004"), models.SourceTask))
	require.NoError(t, svc.Credit(context.Background(), 42, decimal.RequireFromString("0.001"), models.SourceReferral))

	stats, err := svc.GetStats(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.0006").Equal(stats.TodayEarnings))
	assert.True(t, decimal.RequireFromString("0.001").Equal(stats.ReferralEarnings))
}
