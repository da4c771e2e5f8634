package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sleepgoals/internal/domain"

	"github.com/google/uuid"
)

const goalColumns = "id, user_id, goal_value, set_date, created_at, updated_at"

// UpsertGoal inserts or overwrites the goal for (userID, day) in a single
// statement. The unique index on (user_id, set_date) serializes concurrent
// writers; user_id and created_at are never touched on update.
func (d *DB) UpsertGoal(ctx context.Context, userID string, day time.Time, value float64) (*domain.GoalRecord, error) {
	now := time.Now().UTC()
	row := d.sql.QueryRowContext(ctx,
		`INSERT INTO goals(id, user_id, goal_value, set_date, created_at, updated_at)
		 VALUES($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (user_id, set_date)
		 DO UPDATE SET goal_value = EXCLUDED.goal_value, updated_at = EXCLUDED.updated_at
		 RETURNING `+goalColumns+`;`,
		uuid.New(), userID, value, day, now)

	var rec domain.GoalRecord
	if err := scanGoal(row.Scan, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LatestGoalOnOrBefore returns the most recent goal set on or before day, or
// nil when the user has none.
func (d *DB) LatestGoalOnOrBefore(ctx context.Context, userID string, day time.Time) (*domain.GoalRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE user_id=$1 AND set_date <= $2
		 ORDER BY set_date DESC LIMIT 1;`,
		userID, day)

	var rec domain.GoalRecord
	if err := scanGoal(row.Scan, &rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GoalsOnOrBefore returns every goal set on or before day, most recent first.
func (d *DB) GoalsOnOrBefore(ctx context.Context, userID string, day time.Time) ([]domain.GoalRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE user_id=$1 AND set_date <= $2
		 ORDER BY set_date DESC;`,
		userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return collectGoals(rows)
}

// ListGoals returns one page of the user's goals, most recent first.
func (d *DB) ListGoals(ctx context.Context, userID string, limit, offset int) ([]domain.GoalRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals
		 WHERE user_id=$1
		 ORDER BY set_date DESC LIMIT $2 OFFSET $3;`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return collectGoals(rows)
}

// CountGoals returns the total number of goals for a user.
func (d *DB) CountGoals(ctx context.Context, userID string) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM goals WHERE user_id=$1;", userID).Scan(&n)
	return n, err
}

func scanGoal(scan func(...any) error, rec *domain.GoalRecord) error {
	if err := scan(&rec.ID, &rec.UserID, &rec.GoalValue, &rec.SetDate, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return err
	}
	// DATE columns come back as midnight; pin the location to UTC so they
	// compare exactly against normalized days.
	rec.SetDate = domain.NormalizeDay(rec.SetDate)
	return nil
}

func collectGoals(rows *sql.Rows) ([]domain.GoalRecord, error) {
	var out []domain.GoalRecord
	for rows.Next() {
		var rec domain.GoalRecord
		if err := scanGoal(rows.Scan, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
