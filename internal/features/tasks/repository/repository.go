package repository

import "context"

// TaskRepository tracks per-user per-day claim state and ad counters.
type TaskRepository interface {
	ClaimedTaskIDs(ctx context.Context, userID int64) (map[string]bool, error)

	// ClaimTask marks the task claimed for today; reports false when it
	// was already claimed.
	ClaimTask(ctx context.Context, userID int64, taskID string) (bool, error)

	// UnclaimTask removes today's claim mark, undoing a claim whose
	// reward could not be credited.
	UnclaimTask(ctx context.Context, userID int64, taskID string) error

	AdsWatchedToday(ctx context.Context, userID int64) (int, error)
	IncrementAdsWatched(ctx context.Context, userID int64) (int, error)
}
