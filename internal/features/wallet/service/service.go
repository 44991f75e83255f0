package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xssnick/tonutils-go/address"

	"mgb-rewards-backend/internal/common/currency"
	"mgb-rewards-backend/internal/common/logger"
	settingsService "mgb-rewards-backend/internal/features/settings/service"
	usermodels "mgb-rewards-backend/internal/features/user/models"
	userRepository "mgb-rewards-backend/internal/features/user/repository"
	userSvc "mgb-rewards-backend/internal/features/user/service"
	"mgb-rewards-backend/internal/features/wallet/models"
	"mgb-rewards-backend/internal/features/wallet/repository"
)

const (
	walletCacheTTL      = 10 * time.Second
	withdrawalsCacheTTL = 5 * time.Second
)

type WalletService interface {
	GetWalletDetails(ctx context.Context, userID int64) (*models.WalletDetailsResponse, error)
	SaveWalletDetails(ctx context.Context, userID int64, tonWalletAddress string) (*models.WalletDetails, error)

	ListWithdrawals(ctx context.Context, userID int64) (*models.WithdrawalsResponse, error)
	SubmitWithdrawal(ctx context.Context, userID int64, req *models.WithdrawRequest) (*models.WithdrawalResponse, error)

	ListAllWithdrawals(ctx context.Context, statusFilter string) ([]*models.WithdrawalResponse, error)
	ResolveWithdrawal(ctx context.Context, id string, req *models.StatusUpdateRequest) (*models.WithdrawalResponse, error)
}

// Cache is the slice of the shared cache service this feature needs.
// Satisfied by cache.Service.
type Cache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, setter func() (interface{}, error)) error
	InvalidateUser(ctx context.Context, userID int64) error
	InvalidateWallet(ctx context.Context, userID int64) error
}

type walletService struct {
	repo     repository.WalletRepository
	users    userRepository.UserRepository
	settings settingsService.SettingsService
	cache    Cache
}

func NewWalletService(repo repository.WalletRepository, users userRepository.UserRepository, settings settingsService.SettingsService, cacheService Cache) WalletService {
	return &walletService{repo: repo, users: users, settings: settings, cache: cacheService}
}

func (s *walletService) GetWalletDetails(ctx context.Context, userID int64) (*models.WalletDetailsResponse, error) {
	var details models.WalletDetails
	err := s.cache.GetOrSet(ctx, walletCacheKey(userID), &details, walletCacheTTL, func() (interface{}, error) {
		stored, err := s.repo.GetWalletDetails(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrWalletNotFound) {
				// No saved wallet yet; the form starts empty.
				return &models.WalletDetails{}, nil
			}
			return nil, err
		}
		return stored, nil
	})
	if err != nil {
		return nil, err
	}
	return &models.WalletDetailsResponse{Success: true, WalletDetails: details}, nil
}

func (s *walletService) SaveWalletDetails(ctx context.Context, userID int64, tonWalletAddress string) (*models.WalletDetails, error) {
	tonWalletAddress = strings.TrimSpace(tonWalletAddress)
	if _, err := address.ParseAddr(tonWalletAddress); err != nil {
		return nil, ErrInvalidAddress
	}

	details := &models.WalletDetails{
		TonWalletAddress: tonWalletAddress,
		CanWithdraw:      true,
	}
	if err := s.repo.SaveWalletDetails(ctx, userID, details); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to invalidate wallet cache")
	}
	return details, nil
}

func (s *walletService) ListWithdrawals(ctx context.Context, userID int64) (*models.WithdrawalsResponse, error) {
	var responses []models.WithdrawalResponse
	err := s.cache.GetOrSet(ctx, withdrawalsCacheKey(userID), &responses, withdrawalsCacheTTL, func() (interface{}, error) {
		withdrawals, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		sortNewestFirst(withdrawals)

		out := make([]models.WithdrawalResponse, 0, len(withdrawals))
		for _, w := range withdrawals {
			out = append(out, *toWithdrawalResponse(w))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return &models.WithdrawalsResponse{Success: true, Withdrawals: responses}, nil
}

func (s *walletService) SubmitWithdrawal(ctx context.Context, userID int64, req *models.WithdrawRequest) (*models.WithdrawalResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepository.ErrNotFound) {
			return nil, userSvc.ErrUserNotFound
		}
		return nil, err
	}

	details, err := s.repo.GetWalletDetails(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrWalletNotFound) {
		return nil, err
	}
	if details != nil && details.TonWalletAddress != "" && !details.CanWithdraw {
		return nil, ErrWithdrawDisabled
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	hasPending := false
	for _, w := range existing {
		if models.NormalizeStatus(string(w.Status)) == models.StatusPending {
			hasPending = true
			break
		}
	}

	appSettings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	form := WithdrawForm{
		PaymentSystemID: req.PaymentSystemID,
		Amount:          req.Amount,
		PaymentDetails:  req.PaymentDetails,
		Comment:         req.Comment,
	}
	amount, vErr := ValidateWithdrawForm(form, user.Balance, appSettings.MinimumWithdrawal, hasPending)
	if vErr != nil {
		return nil, vErr
	}

	// The list check above can race with a concurrent submission; the
	// slot claim is the authoritative gate. SETNX makes sure only one of
	// two concurrent requests gets past this point.
	claimed, err := s.repo.ClaimPendingSlot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, newValidationError(KindPendingExists,
			"Cannot create new request until current one is processed")
	}

	// The debit re-checks the balance under WATCH, so a concurrent
	// submission cannot overdraw.
	if err := s.users.DebitBalance(ctx, userID, amount); err != nil {
		s.releasePendingSlot(ctx, userID)
		if errors.Is(err, userRepository.ErrInsufficientBalance) {
			return nil, newValidationError(KindInsufficientBalance, "Insufficient balance")
		}
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Method:    req.PaymentSystemID,
		Status:    models.StatusPending,
		Details:   strings.TrimSpace(req.PaymentDetails),
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateWithdrawal(ctx, withdrawal); err != nil {
		// Put the money back; the request was never recorded.
		if refundErr := s.users.CreditBalance(ctx, userID, amount, usermodels.SourceRefund); refundErr != nil {
			logger.Error().Err(refundErr).Int64("user_id", userID).Msg("Failed to refund after create failure")
		}
		s.releasePendingSlot(ctx, userID)
		return nil, err
	}

	s.invalidateAfterMutation(ctx, userID)

	logger.Info().
		Int64("user_id", userID).
		Str("withdrawal_id", withdrawal.ID).
		Str("amount", amount.String()).
		Str("method", withdrawal.Method).
		Msg("Withdrawal submitted")

	return toWithdrawalResponse(withdrawal), nil
}

func (s *walletService) ListAllWithdrawals(ctx context.Context, statusFilter string) ([]*models.WithdrawalResponse, error) {
	withdrawals, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(withdrawals)

	var filter models.WithdrawalStatus
	if statusFilter != "" {
		filter = models.NormalizeStatus(statusFilter)
		if filter == models.StatusUnknown {
			return nil, ErrInvalidStatus
		}
	}

	responses := make([]*models.WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		if filter != "" && models.NormalizeStatus(string(w.Status)) != filter {
			continue
		}
		responses = append(responses, toWithdrawalResponse(w))
	}
	return responses, nil
}

func (s *walletService) ResolveWithdrawal(ctx context.Context, id string, req *models.StatusUpdateRequest) (*models.WithdrawalResponse, error) {
	withdrawal, err := s.repo.GetWithdrawal(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWithdrawalNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}

	status := models.NormalizeStatus(req.Status)
	if status == models.StatusUnknown || !status.Terminal() {
		return nil, ErrInvalidStatus
	}
	if models.NormalizeStatus(string(withdrawal.Status)) != models.StatusPending {
		return nil, ErrWithdrawalResolved
	}

	if status == models.StatusRejected {
		// A rejected request returns its amount to the balance.
		if err := s.users.CreditBalance(ctx, withdrawal.UserID, withdrawal.Amount, usermodels.SourceRefund); err != nil {
			return nil, err
		}
	}

	withdrawal.Status = status
	withdrawal.AdminNotes = req.AdminNotes
	if err := s.repo.UpdateWithdrawal(ctx, withdrawal); err != nil {
		return nil, err
	}

	// A terminal state frees the user to submit again.
	s.releasePendingSlot(ctx, withdrawal.UserID)

	s.invalidateAfterMutation(ctx, withdrawal.UserID)

	logger.Info().
		Str("withdrawal_id", withdrawal.ID).
		Int64("user_id", withdrawal.UserID).
		Str("status", string(status)).
		Msg("Withdrawal resolved")

	return toWithdrawalResponse(withdrawal), nil
}

func (s *walletService) releasePendingSlot(ctx context.Context, userID int64) {
	if err := s.repo.ReleasePendingSlot(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to release pending withdrawal slot")
	}
}

func (s *walletService) invalidateAfterMutation(ctx context.Context, userID int64) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to invalidate user cache")
	}
}

func walletCacheKey(userID int64) string {
	return fmt.Sprintf("cache:wallet_details:%d", userID)
}

func withdrawalsCacheKey(userID int64) string {
	return fmt.Sprintf("cache:withdrawals:%d", userID)
}

func sortNewestFirst(withdrawals []*models.Withdrawal) {
	sort.Slice(withdrawals, func(i, j int) bool {
		return withdrawals[i].CreatedAt.After(withdrawals[j].CreatedAt)
	})
}

func toWithdrawalResponse(w *models.Withdrawal) *models.WithdrawalResponse {
	status := models.NormalizeStatus(string(w.Status))
	return &models.WithdrawalResponse{
		ID:          w.ID,
		Amount:      w.Amount,
		AmountMGB:   currency.ToMGB(w.Amount),
		Method:      w.Method,
		Status:      status,
		StatusLabel: status.Label(),
		Details:     w.Details,
		AdminNotes:  w.AdminNotes,
		CreatedAt:   w.CreatedAt,
		DisplayDate: currency.FormatDateTime(w.CreatedAt),
	}
}
