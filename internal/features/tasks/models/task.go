package models

import "github.com/shopspring/decimal"

// Task is a daily task definition. The set is fixed at compile time;
// per-user claim state lives in storage.
type Task struct {
	ID          string          `json:"id" example:"join_community"`
	Title       string          `json:"title" example:"Join the community chat"`
	Description string          `json:"description,omitempty"`
	Reward      decimal.Decimal `json:"reward" swaggertype:"string" example:"0.0004"`
	URL         string          `json:"url,omitempty"`
}

// Task IDs referenced outside the catalog.
const (
	TaskJoinCommunity = "join_community"
	TaskDailyCheckin  = "daily_checkin"
)

var dailyTasks = []Task{
	{
		ID:          TaskJoinCommunity,
		Title:       "Join the community chat",
		Description: "Network with other members in our chat room",
		Reward:      decimal.RequireFromString("0.0004"),
		URL:         "https://t.me/PaidAdsCommunity",
	},
	{
		ID:          TaskDailyCheckin,
		Title:       "Daily check-in",
		Description: "Open the app and claim your daily bonus",
		Reward:      decimal.RequireFromString("0.0002"),
	},
}

// DailyTasks returns the task definitions in display order.
func DailyTasks() []Task {
	out := make([]Task, len(dailyTasks))
	copy(out, dailyTasks)
	return out
}

// FindTask looks a task up by ID.
func FindTask(id string) (Task, bool) {
	for _, task := range dailyTasks {
		if task.ID == id {
			return task, true
		}
	}
	return Task{}, false
}

// TaskStatus is a task definition with the user's claim state.
type TaskStatus struct {
	Task
	Claimed bool `json:"claimed"`
}

// DailyTasksResponse is the home dashboard's activity payload.
// @Description Daily tasks with claim state and today's ad count
type DailyTasksResponse struct {
	Tasks           []TaskStatus `json:"tasks"`
	AdsWatchedToday int          `json:"adsWatchedToday"`
}

// WatchAdResponse reports a credited ad view.
type WatchAdResponse struct {
	Success         bool            `json:"success"`
	Reward          decimal.Decimal `json:"reward" swaggertype:"string"`
	AdsWatchedToday int             `json:"adsWatchedToday"`
	DailyAdLimit    int             `json:"dailyAdLimit"`
}

// ClaimResponse reports a credited task claim.
type ClaimResponse struct {
	Success bool            `json:"success"`
	TaskID  string          `json:"taskId"`
	Reward  decimal.Decimal `json:"reward" swaggertype:"string"`
}
