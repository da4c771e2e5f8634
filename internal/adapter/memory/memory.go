// Package memory implements an in-memory goal repository for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sleepgoals/internal/domain"

	"github.com/google/uuid"
)

// DB implements domain.GoalRepository in memory. The mutex stands in for the
// unique-index serialization a real store provides, so upserts stay atomic
// under concurrent callers.
type DB struct {
	mu    sync.Mutex
	goals []domain.GoalRecord
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

var _ domain.GoalRepository = (*DB)(nil)

// Ping always succeeds; the store lives in process.
func (db *DB) Ping(ctx context.Context) error {
	return nil
}

// UpsertGoal inserts or overwrites the goal for (userID, day).
func (db *DB) UpsertGoal(ctx context.Context, userID string, day time.Time, value float64) (*domain.GoalRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	day = domain.NormalizeDay(day)
	now := time.Now().UTC()

	for i := range db.goals {
		g := &db.goals[i]
		if g.UserID == userID && g.SetDate.Equal(day) {
			g.GoalValue = value
			g.UpdatedAt = now
			rec := *g
			return &rec, nil
		}
	}

	rec := domain.GoalRecord{
		ID:        uuid.New(),
		UserID:    userID,
		GoalValue: value,
		SetDate:   day,
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.goals = append(db.goals, rec)
	out := rec
	return &out, nil
}

// LatestGoalOnOrBefore returns the most recent goal set on or before day.
func (db *DB) LatestGoalOnOrBefore(ctx context.Context, userID string, day time.Time) (*domain.GoalRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	day = domain.NormalizeDay(day)

	var latest *domain.GoalRecord
	for i := range db.goals {
		g := &db.goals[i]
		if g.UserID != userID || g.SetDate.After(day) {
			continue
		}
		if latest == nil || g.SetDate.After(latest.SetDate) {
			latest = g
		}
	}
	if latest == nil {
		return nil, nil
	}
	rec := *latest
	return &rec, nil
}

// GoalsOnOrBefore returns every goal set on or before day, most recent first.
func (db *DB) GoalsOnOrBefore(ctx context.Context, userID string, day time.Time) ([]domain.GoalRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	day = domain.NormalizeDay(day)

	var result []domain.GoalRecord
	for _, g := range db.goals {
		if g.UserID == userID && !g.SetDate.After(day) {
			result = append(result, g)
		}
	}
	sortBySetDateDesc(result)
	return result, nil
}

// ListGoals returns one page of the user's goals, most recent first.
func (db *DB) ListGoals(ctx context.Context, userID string, limit, offset int) ([]domain.GoalRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.GoalRecord
	for _, g := range db.goals {
		if g.UserID == userID {
			result = append(result, g)
		}
	}
	sortBySetDateDesc(result)

	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountGoals returns the total number of goals for a user.
func (db *DB) CountGoals(ctx context.Context, userID string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, g := range db.goals {
		if g.UserID == userID {
			n++
		}
	}
	return n, nil
}

func sortBySetDateDesc(goals []domain.GoalRecord) {
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].SetDate.After(goals[j].SetDate)
	})
}
