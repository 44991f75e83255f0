package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mgb-rewards-backend/internal/features/tasks/repository"
)

// Daily state lives past midnight so late renders still resolve, then
// expires on its own.
const dailyRetention = 48 * time.Hour

type taskRepository struct {
	client *redis.Client
}

func NewTaskRepository(client *redis.Client) repository.TaskRepository {
	return &taskRepository{client: client}
}

func day() string {
	return time.Now().UTC().Format("2006-01-02")
}

func claimedKey(userID int64) string {
	return fmt.Sprintf("tasks:claimed:%d:%s", userID, day())
}

func adsKey(userID int64) string {
	return fmt.Sprintf("ads:watched:%d:%s", userID, day())
}

func (r *taskRepository) ClaimedTaskIDs(ctx context.Context, userID int64) (map[string]bool, error) {
	ids, err := r.client.SMembers(ctx, claimedKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	claimed := make(map[string]bool, len(ids))
	for _, id := range ids {
		claimed[id] = true
	}
	return claimed, nil
}

func (r *taskRepository) ClaimTask(ctx context.Context, userID int64, taskID string) (bool, error) {
	key := claimedKey(userID)
	added, err := r.client.SAdd(ctx, key, taskID).Result()
	if err != nil {
		return false, err
	}
	if err := r.client.Expire(ctx, key, dailyRetention).Err(); err != nil {
		return false, err
	}
	return added == 1, nil
}

func (r *taskRepository) UnclaimTask(ctx context.Context, userID int64, taskID string) error {
	return r.client.SRem(ctx, claimedKey(userID), taskID).Err()
}

func (r *taskRepository) AdsWatchedToday(ctx context.Context, userID int64) (int, error) {
	count, err := r.client.Get(ctx, adsKey(userID)).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) IncrementAdsWatched(ctx context.Context, userID int64) (int, error) {
	key := adsKey(userID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if err := r.client.Expire(ctx, key, dailyRetention).Err(); err != nil {
		return 0, err
	}
	return int(count), nil
}
