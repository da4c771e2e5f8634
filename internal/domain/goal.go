package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GoalValue bounds in minutes of sleep per day.
const (
	MinGoalValue = 0
	MaxGoalValue = 1440
)

// GoalRecord is a sleep-duration goal set by a user on a calendar day. At
// most one record exists per (UserID, SetDate) pair; re-setting the same
// day's goal overwrites GoalValue in place.
type GoalRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	GoalValue float64   `json:"goalValue"`
	SetDate   time.Time `json:"setDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResolvedGoal is the goal in effect as of a date: the value of the most
// recently set record on or before it. SetDate is nil when the user has no
// record on or before the date; GoalValue is 0 in that case.
type ResolvedGoal struct {
	GoalValue float64    `json:"goalValue"`
	SetDate   *time.Time `json:"setDate"`
}

// DayGoal is one entry of a range resolution. Goal is nil for days that
// precede the user's first record.
type DayGoal struct {
	Date time.Time `json:"date"`
	Goal *float64  `json:"goal"`
}

// GoalRepository is the port for goal persistence. Days are normalized to
// UTC midnight before they reach the repository; implementations key and
// compare on that exact value.
type GoalRepository interface {
	// UpsertGoal inserts or overwrites the goal for (userID, day) and returns
	// the resulting record. The upsert must be atomic: concurrent writers on
	// the same key converge to the last value without duplicate records.
	UpsertGoal(ctx context.Context, userID string, day time.Time, value float64) (*GoalRecord, error)

	// LatestGoalOnOrBefore returns the record with the greatest SetDate <= day,
	// or nil when none exists.
	LatestGoalOnOrBefore(ctx context.Context, userID string, day time.Time) (*GoalRecord, error)

	// GoalsOnOrBefore returns every record with SetDate <= day, most recent
	// first.
	GoalsOnOrBefore(ctx context.Context, userID string, day time.Time) ([]GoalRecord, error)

	// ListGoals returns records ordered by SetDate descending, for paging.
	ListGoals(ctx context.Context, userID string, limit, offset int) ([]GoalRecord, error)

	// CountGoals returns the total number of records for the user.
	CountGoals(ctx context.Context, userID string) (int, error)
}
