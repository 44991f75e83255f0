package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mgb-rewards-backend/internal/common/currency"
	"mgb-rewards-backend/internal/features/user/models"
	"mgb-rewards-backend/internal/features/user/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.UserResponse, error)
	GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.UserResponse, error)
	GetStats(ctx context.Context, userID int64) (*models.StatsResponse, error)

	// Credit adds a reward to the user's balance, tagged with the
	// earning source for stats.
	Credit(ctx context.Context, userID int64, amount decimal.Decimal, source string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, telegramID)
	if err == nil {
		if user.Username != username || user.FirstName != firstName || user.LastName != lastName {
			user.Username = username
			user.FirstName = firstName
			user.LastName = lastName
			user.UpdatedAt = time.Now()
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return toUserResponse(user), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	newUser := &models.User{
		ID:           telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Balance:      decimal.Zero,
		ReferralCode: newReferralCode(),
		Role:         "user",
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return toUserResponse(newUser), nil
}

func (s *userService) GetStats(ctx context.Context, userID int64) (*models.StatsResponse, error) {
	today, err := s.repo.TodayEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}
	referral, err := s.repo.ReferralEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.StatsResponse{
		TodayEarnings:    today,
		ReferralEarnings: referral,
	}, nil
}

func (s *userService) Credit(ctx context.Context, userID int64, amount decimal.Decimal, source string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("credit amount must be positive")
	}
	err := s.repo.CreditBalance(ctx, userID, amount, source)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func toUserResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:           user.ID,
		TelegramID:   strconv.FormatInt(user.ID, 10),
		Username:     user.Username,
		Balance:      user.Balance,
		BalanceMGB:   currency.ToMGB(user.Balance),
		ReferralCode: user.ReferralCode,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}
}
