package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mgb-rewards-backend/internal/common/logger"
	"mgb-rewards-backend/internal/features/promo/models"
	"mgb-rewards-backend/internal/features/promo/repository"
	usermodels "mgb-rewards-backend/internal/features/user/models"
	userService "mgb-rewards-backend/internal/features/user/service"
)

// Custom errors for promo service
var (
	ErrPromoNotFound   = errors.New("promo code not found")
	ErrPromoExhausted  = errors.New("promo code activation limit reached")
	ErrAlreadyRedeemed = errors.New("promo code already redeemed")
	ErrPromoExists     = errors.New("promo code already exists")
)

type PromoService interface {
	Redeem(ctx context.Context, userID int64, code string) (*models.RedeemResponse, error)
	Create(ctx context.Context, req *models.CreateRequest) (*models.PromoCode, error)
}

type promoService struct {
	repo  repository.PromoRepository
	users userService.UserService
}

func NewPromoService(repo repository.PromoRepository, users userService.UserService) PromoService {
	return &promoService{repo: repo, users: users}
}

func (s *promoService) Redeem(ctx context.Context, userID int64, code string) (*models.RedeemResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	promo, err := s.repo.Get(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}

	if promo.MaxActivations > 0 && promo.Activations >= promo.MaxActivations {
		return nil, ErrPromoExhausted
	}

	redeemedNow, err := s.repo.MarkRedeemed(ctx, code, userID)
	if err != nil {
		return nil, err
	}
	if !redeemedNow {
		return nil, ErrAlreadyRedeemed
	}

	// The cap check above can race with concurrent redemptions; the
	// counter is authoritative. A bump past the cap means this request
	// lost the race for the last activation.
	count, err := s.repo.IncrementActivations(ctx, code)
	if err != nil {
		s.rollbackActivation(ctx, code, userID)
		return nil, err
	}
	if promo.MaxActivations > 0 && count > promo.MaxActivations {
		s.rollbackActivation(ctx, code, userID)
		return nil, ErrPromoExhausted
	}

	if err := s.users.Credit(ctx, userID, promo.Reward, usermodels.SourcePromo); err != nil {
		s.rollbackActivation(ctx, code, userID)
		return nil, err
	}

	logger.Info().
		Int64("user_id", userID).
		Str("code", code).
		Str("reward", promo.Reward.String()).
		Msg("Promo code redeemed")

	return &models.RedeemResponse{Success: true, Reward: promo.Reward}, nil
}

func (s *promoService) rollbackActivation(ctx context.Context, code string, userID int64) {
	if err := s.repo.RollbackActivation(ctx, code, userID); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Str("code", code).Msg("Failed to roll back promo activation")
	}
}

func (s *promoService) Create(ctx context.Context, req *models.CreateRequest) (*models.PromoCode, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, errors.New("code must not be empty")
	}

	reward, err := decimal.NewFromString(req.Reward)
	if err != nil || reward.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("reward must be a positive decimal")
	}

	if _, err := s.repo.Get(ctx, code); err == nil {
		return nil, ErrPromoExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	promo := &models.PromoCode{
		Code:           code,
		Reward:         reward,
		MaxActivations: req.MaxActivations,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Save(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}
