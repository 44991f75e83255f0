package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settingsmodels "mgb-rewards-backend/internal/features/settings/models"
	usermodels "mgb-rewards-backend/internal/features/user/models"
	userRepository "mgb-rewards-backend/internal/features/user/repository"
	userSvc "mgb-rewards-backend/internal/features/user/service"
	"mgb-rewards-backend/internal/features/wallet/models"
	"mgb-rewards-backend/internal/features/wallet/repository"
)

// passCache always misses and serves straight from the setter.
type passCache struct{}

func (passCache) GetOrSet(_ context.Context, _ string, dest interface{}, _ time.Duration, setter func() (interface{}, error)) error {
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

func (passCache) InvalidateUser(context.Context, int64) error   { return nil }
func (passCache) InvalidateWallet(context.Context, int64) error { return nil }

type fakeUserRepo struct {
	user    *usermodels.User
	credits []decimal.Decimal
}

func (r *fakeUserRepo) Create(context.Context, *usermodels.User) error { return nil }
func (r *fakeUserRepo) Update(context.Context, *usermodels.User) error { return nil }

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*usermodels.User, error) {
	if r.user == nil || r.user.ID != id {
		return nil, userRepository.ErrNotFound
	}
	copied := *r.user
	return &copied, nil
}

func (r *fakeUserRepo) CreditBalance(_ context.Context, _ int64, amount decimal.Decimal, _ string) error {
	r.user.Balance = r.user.Balance.Add(amount)
	r.credits = append(r.credits, amount)
	return nil
}

func (r *fakeUserRepo) DebitBalance(_ context.Context, _ int64, amount decimal.Decimal) error {
	if r.user.Balance.LessThan(amount) {
		return userRepository.ErrInsufficientBalance
	}
	r.user.Balance = r.user.Balance.Sub(amount)
	return nil
}

func (r *fakeUserRepo) TodayEarnings(context.Context, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakeUserRepo) ReferralEarnings(context.Context, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeWalletRepo struct {
	details     map[int64]*models.WalletDetails
	withdrawals map[string]*models.Withdrawal
	pending     map[int64]bool
	createErr   error

	// staleIndex makes ListByUser return nothing, standing in for the
	// window where a concurrent submission is not yet visible in the
	// index read.
	staleIndex bool
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		details:     make(map[int64]*models.WalletDetails),
		withdrawals: make(map[string]*models.Withdrawal),
		pending:     make(map[int64]bool),
	}
}

func (r *fakeWalletRepo) ClaimPendingSlot(_ context.Context, userID int64) (bool, error) {
	if r.pending[userID] {
		return false, nil
	}
	r.pending[userID] = true
	return true, nil
}

func (r *fakeWalletRepo) ReleasePendingSlot(_ context.Context, userID int64) error {
	delete(r.pending, userID)
	return nil
}

func (r *fakeWalletRepo) GetWalletDetails(_ context.Context, userID int64) (*models.WalletDetails, error) {
	details, ok := r.details[userID]
	if !ok {
		return nil, repository.ErrWalletNotFound
	}
	return details, nil
}

func (r *fakeWalletRepo) SaveWalletDetails(_ context.Context, userID int64, details *models.WalletDetails) error {
	r.details[userID] = details
	return nil
}

func (r *fakeWalletRepo) CreateWithdrawal(_ context.Context, w *models.Withdrawal) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.withdrawals[w.ID] = w
	return nil
}

func (r *fakeWalletRepo) GetWithdrawal(_ context.Context, id string) (*models.Withdrawal, error) {
	w, ok := r.withdrawals[id]
	if !ok {
		return nil, repository.ErrWithdrawalNotFound
	}
	return w, nil
}

func (r *fakeWalletRepo) UpdateWithdrawal(_ context.Context, w *models.Withdrawal) error {
	r.withdrawals[w.ID] = w
	return nil
}

func (r *fakeWalletRepo) ListByUser(_ context.Context, userID int64) ([]*models.Withdrawal, error) {
	if r.staleIndex {
		return nil, nil
	}
	var out []*models.Withdrawal
	for _, w := range r.withdrawals {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWalletRepo) ListAll(_ context.Context) ([]*models.Withdrawal, error) {
	var out []*models.Withdrawal
	for _, w := range r.withdrawals {
		out = append(out, w)
	}
	return out, nil
}

type fakeSettings struct {
	settings settingsmodels.AppSettings
}

func (s *fakeSettings) Get(context.Context) (*settingsmodels.AppSettings, error) {
	copied := s.settings
	return &copied, nil
}

func (s *fakeSettings) Update(context.Context, *settingsmodels.UpdateRequest) (*settingsmodels.AppSettings, error) {
	return nil, errors.New("not implemented")
}

const (
	testUserID = int64(42)
	// TON Foundation mainnet address, known good checksum.
	testTonAddress = "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"
)

func newTestService(balance string) (WalletService, *fakeUserRepo, *fakeWalletRepo) {
	users := &fakeUserRepo{user: &usermodels.User{
		ID:      testUserID,
		Balance: dec(balance),
	}}
	repo := newFakeWalletRepo()
	settings := &fakeSettings{settings: settingsmodels.AppSettings{
		DailyAdLimit:      50,
		MinimumWithdrawal: dec("0.5"),
		AdReward:          dec("0.0002"),
	}}
	return NewWalletService(repo, users, settings, passCache{}), users, repo
}

func withdrawRequest(amount string) *models.WithdrawRequest {
	return &models.WithdrawRequest{
		Amount:          amount,
		PaymentSystemID: "mgb_wallet",
		PaymentDetails:  testTonAddress,
	}
}

func TestSubmitWithdrawal(t *testing.T) {
	svc, users, repo := newTestService("10")

	resp, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("2.5"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, "Pending", resp.StatusLabel)
	assert.True(t, dec("2.5").Equal(resp.Amount))
	assert.Equal(t, int64(1250000), resp.AmountMGB)
	assert.Equal(t, "mgb_wallet", resp.Method)
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.DisplayDate)

	assert.True(t, dec("7.5").Equal(users.user.Balance), "balance debited at submission")
	assert.Len(t, repo.withdrawals, 1)
}

func TestSubmitWithdrawalPendingBlocks(t *testing.T) {
	svc, users, _ := newTestService("10")

	_, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("1"))
	require.NoError(t, err)

	_, err = svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("1"))
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, KindPendingExists, vErr.Kind)
	assert.True(t, dec("9").Equal(users.user.Balance), "second submission must not debit")
}

func TestSubmitWithdrawalConcurrentOnlyOneWins(t *testing.T) {
	// Even when the index read sees no pending withdrawal for either of
	// two near-simultaneous submissions, the slot claim admits exactly
	// one of them.
	svc, users, repo := newTestService("10")
	repo.staleIndex = true

	_, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("2"))
	require.NoError(t, err)

	_, err = svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("2"))
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, KindPendingExists, vErr.Kind)

	assert.Len(t, repo.withdrawals, 1, "at most one pending withdrawal per user")
	assert.True(t, dec("8").Equal(users.user.Balance), "only one debit")
}

func TestSubmitWithdrawalSlotReleasedOnCreateFailure(t *testing.T) {
	svc, users, repo := newTestService("10")
	repo.createErr = errors.New("redis down")

	_, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("2"))
	require.Error(t, err)
	assert.Empty(t, repo.pending, "slot must be freed when the request was never recorded")

	repo.createErr = nil
	_, err = svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("2"))
	require.NoError(t, err)
	assert.True(t, dec("8").Equal(users.user.Balance))
}

func TestResolveWithdrawalFreesSlot(t *testing.T) {
	svc, _, repo := newTestService("10")

	resp, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("2"))
	require.NoError(t, err)
	assert.True(t, repo.pending[testUserID])

	_, err = svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{Status: "paid"})
	require.NoError(t, err)
	assert.Empty(t, repo.pending)

	// The index still shows the paid request; a new submission must get
	// through on a fresh slot.
	_, err = svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("2"))
	require.NoError(t, err)
}

func TestSubmitWithdrawalUnknownUser(t *testing.T) {
	svc, _, _ := newTestService("10")

	_, err := svc.SubmitWithdrawal(context.Background(), 99, withdrawRequest("1"))
	assert.ErrorIs(t, err, userSvc.ErrUserNotFound)
}

func TestSubmitWithdrawalValidation(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		kind    ValidationErrorKind
	}{
		{"below minimum", "10", "0.4", KindBelowMinimum},
		{"over balance", "1", "2", KindInsufficientBalance},
		{"garbage amount", "10", "nope", KindInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _ := newTestService(tt.balance)
			before := users.user.Balance

			_, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest(tt.amount))
			vErr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, vErr.Kind)
			assert.True(t, before.Equal(users.user.Balance))
		})
	}
}

func TestSubmitWithdrawalRefundsOnCreateFailure(t *testing.T) {
	svc, users, repo := newTestService("10")
	repo.createErr = errors.New("redis down")

	_, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("3"))
	require.Error(t, err)

	assert.True(t, dec("10").Equal(users.user.Balance), "debit must be refunded")
	require.Len(t, users.credits, 1)
	assert.True(t, dec("3").Equal(users.credits[0]))
}

func TestSubmitWithdrawalDisabledWallet(t *testing.T) {
	svc, _, repo := newTestService("10")
	repo.details[testUserID] = &models.WalletDetails{
		TonWalletAddress: testTonAddress,
		CanWithdraw:      false,
	}

	_, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("1"))
	assert.ErrorIs(t, err, ErrWithdrawDisabled)
}

func TestSaveWalletDetails(t *testing.T) {
	svc, _, repo := newTestService("0")

	details, err := svc.SaveWalletDetails(context.Background(), testUserID, "  "+testTonAddress+"  ")
	require.NoError(t, err)
	assert.Equal(t, testTonAddress, details.TonWalletAddress)
	assert.True(t, details.CanWithdraw)
	assert.Contains(t, repo.details, testUserID)

	_, err = svc.SaveWalletDetails(context.Background(), testUserID, "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestGetWalletDetailsEmpty(t *testing.T) {
	svc, _, _ := newTestService("0")

	resp, err := svc.GetWalletDetails(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.WalletDetails.TonWalletAddress)
	assert.False(t, resp.WalletDetails.CanWithdraw)
}

func TestResolveWithdrawal(t *testing.T) {
	t.Run("rejection refunds", func(t *testing.T) {
		svc, users, _ := newTestService("10")
		resp, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("4"))
		require.NoError(t, err)

		resolved, err := svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{
			Status:     "rejected",
			AdminNotes: "suspicious activity",
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, resolved.Status)
		assert.Equal(t, "suspicious activity", resolved.AdminNotes)
		assert.True(t, dec("10").Equal(users.user.Balance), "rejection returns the amount")
	})

	t.Run("payout keeps the debit", func(t *testing.T) {
		svc, users, _ := newTestService("10")
		resp, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("4"))
		require.NoError(t, err)

		resolved, err := svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{Status: "paid"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, resolved.Status)
		assert.Equal(t, "Successful", resolved.StatusLabel)
		assert.True(t, dec("6").Equal(users.user.Balance))
	})

	t.Run("legacy status spelling accepted", func(t *testing.T) {
		svc, _, _ := newTestService("10")
		resp, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("1"))
		require.NoError(t, err)

		resolved, err := svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{Status: "Approved"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, resolved.Status)
	})

	t.Run("already resolved", func(t *testing.T) {
		svc, _, _ := newTestService("10")
		resp, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("1"))
		require.NoError(t, err)

		_, err = svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{Status: "paid"})
		require.NoError(t, err)
		_, err = svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{Status: "rejected"})
		assert.ErrorIs(t, err, ErrWithdrawalResolved)
	})

	t.Run("non-terminal status", func(t *testing.T) {
		svc, _, _ := newTestService("10")
		resp, err := svc.SubmitWithdrawal(context.Background(), testUserID, withdrawRequest("1"))
		require.NoError(t, err)

		_, err = svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{Status: "pending"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
		_, err = svc.ResolveWithdrawal(context.Background(), resp.ID, &models.StatusUpdateRequest{Status: "done"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := newTestService("10")
		_, err := svc.ResolveWithdrawal(context.Background(), "missing", &models.StatusUpdateRequest{Status: "paid"})
		assert.ErrorIs(t, err, ErrWithdrawalNotFound)
	})
}

func TestListAllWithdrawals(t *testing.T) {
	svc, _, repo := newTestService("10")
	now := time.Now()
	repo.withdrawals["a"] = &models.Withdrawal{ID: "a", UserID: 1, Amount: dec("1"), Status: models.StatusPending, CreatedAt: now}
	repo.withdrawals["b"] = &models.Withdrawal{ID: "b", UserID: 2, Amount: dec("2"), Status: "Successfull", CreatedAt: now.Add(time.Minute)}
	repo.withdrawals["c"] = &models.Withdrawal{ID: "c", UserID: 1, Amount: dec("3"), Status: models.StatusRejected, CreatedAt: now.Add(2 * time.Minute)}

	all, err := svc.ListAllWithdrawals(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID, "newest first")

	paid, err := svc.ListAllWithdrawals(context.Background(), "paid")
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "b", paid[0].ID)
	assert.Equal(t, models.StatusPaid, paid[0].Status)

	_, err = svc.ListAllWithdrawals(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListWithdrawals(t *testing.T) {
	svc, _, repo := newTestService("10")
	now := time.Now()
	repo.withdrawals["a"] = &models.Withdrawal{ID: "a", UserID: testUserID, Amount: dec("1"), Status: models.StatusPending, CreatedAt: now}
	repo.withdrawals["b"] = &models.Withdrawal{ID: "b", UserID: 99, Amount: dec("2"), Status: models.StatusPending, CreatedAt: now}

	resp, err := svc.ListWithdrawals(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Withdrawals, 1)
	assert.Equal(t, "a", resp.Withdrawals[0].ID)
}
