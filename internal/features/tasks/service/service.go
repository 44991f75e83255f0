package service

import (
	"context"
	"errors"

	"mgb-rewards-backend/internal/common/logger"
	settingsService "mgb-rewards-backend/internal/features/settings/service"
	"mgb-rewards-backend/internal/features/tasks/models"
	"mgb-rewards-backend/internal/features/tasks/repository"
	usermodels "mgb-rewards-backend/internal/features/user/models"
	userService "mgb-rewards-backend/internal/features/user/service"
)

// Custom errors for tasks service
var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrAlreadyClaimed = errors.New("task already claimed today")
	ErrAdLimitReached = errors.New("daily ad limit reached")
)

type TaskService interface {
	GetDaily(ctx context.Context, userID int64) (*models.DailyTasksResponse, error)
	Claim(ctx context.Context, userID int64, taskID string) (*models.ClaimResponse, error)
	WatchAd(ctx context.Context, userID int64) (*models.WatchAdResponse, error)
}

type taskService struct {
	repo          repository.TaskRepository
	users         userService.UserService
	settings      settingsService.SettingsService
	communityLink string
}

// NewTaskService builds the task service. A non-empty communityLink
// overrides the join-community task's URL.
func NewTaskService(repo repository.TaskRepository, users userService.UserService, settings settingsService.SettingsService, communityLink string) TaskService {
	return &taskService{repo: repo, users: users, settings: settings, communityLink: communityLink}
}

func (s *taskService) GetDaily(ctx context.Context, userID int64) (*models.DailyTasksResponse, error) {
	claimed, err := s.repo.ClaimedTaskIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	adsWatched, err := s.repo.AdsWatchedToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	definitions := models.DailyTasks()
	tasks := make([]models.TaskStatus, 0, len(definitions))
	for _, task := range definitions {
		if task.ID == models.TaskJoinCommunity && s.communityLink != "" {
			task.URL = s.communityLink
		}
		tasks = append(tasks, models.TaskStatus{Task: task, Claimed: claimed[task.ID]})
	}

	return &models.DailyTasksResponse{Tasks: tasks, AdsWatchedToday: adsWatched}, nil
}

func (s *taskService) Claim(ctx context.Context, userID int64, taskID string) (*models.ClaimResponse, error) {
	task, ok := models.FindTask(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	claimedNow, err := s.repo.ClaimTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if !claimedNow {
		return nil, ErrAlreadyClaimed
	}

	if err := s.users.Credit(ctx, userID, task.Reward, usermodels.SourceTask); err != nil {
		// The claim mark was consumed without a reward; give it back so
		// the user can retry.
		if unclaimErr := s.repo.UnclaimTask(ctx, userID, taskID); unclaimErr != nil {
			logger.Warn().Err(unclaimErr).Int64("user_id", userID).Str("task_id", taskID).Msg("Failed to roll back task claim")
		}
		return nil, err
	}

	logger.Info().
		Int64("user_id", userID).
		Str("task_id", taskID).
		Str("reward", task.Reward.String()).
		Msg("Task claimed")

	return &models.ClaimResponse{Success: true, TaskID: taskID, Reward: task.Reward}, nil
}

func (s *taskService) WatchAd(ctx context.Context, userID int64) (*models.WatchAdResponse, error) {
	appSettings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	watched, err := s.repo.AdsWatchedToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	if watched >= appSettings.DailyAdLimit {
		return nil, ErrAdLimitReached
	}

	count, err := s.repo.IncrementAdsWatched(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count > appSettings.DailyAdLimit {
		// Lost the race for the last slot.
		return nil, ErrAdLimitReached
	}

	if err := s.users.Credit(ctx, userID, appSettings.AdReward, usermodels.SourceAd); err != nil {
		return nil, err
	}

	return &models.WatchAdResponse{
		Success:         true,
		Reward:          appSettings.AdReward,
		AdsWatchedToday: count,
		DailyAdLimit:    appSettings.DailyAdLimit,
	}, nil
}
