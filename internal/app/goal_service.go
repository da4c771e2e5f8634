// Package app holds the application services and business logic.
package app

import (
	"context"
	"time"

	"sleepgoals/internal/domain"
)

// GoalService encapsulates the sleep-goal use cases: setting today's goal and
// resolving the active goal for a date or a date range. A goal set on day D
// stays in effect for every later day until a newer goal supersedes it.
type GoalService struct {
	repo domain.GoalRepository
	now  func() time.Time
}

// NewGoalService creates a GoalService backed by the given repository.
func NewGoalService(repo domain.GoalRepository) *GoalService {
	return &GoalService{repo: repo, now: time.Now}
}

// NewGoalServiceAt creates a GoalService with a fixed clock, for tests that
// need a deterministic "today".
func NewGoalServiceAt(repo domain.GoalRepository, now func() time.Time) *GoalService {
	return &GoalService{repo: repo, now: now}
}

// SetGoal upserts the goal for today. value is minutes of sleep and must lie
// within [0, 1440]. Returns the post-upsert record.
func (s *GoalService) SetGoal(ctx context.Context, userID string, value float64) (*domain.GoalRecord, error) {
	if userID == "" {
		return nil, validationf("user ID is required")
	}
	if value < domain.MinGoalValue || value > domain.MaxGoalValue {
		return nil, validationf("goal value must be a number between %d and %d minutes",
			domain.MinGoalValue, domain.MaxGoalValue)
	}
	today := domain.NormalizeDay(s.now())
	return s.repo.UpsertGoal(ctx, userID, today, value)
}

// GetGoal resolves the active goal as of date, the most recently set goal on
// or before it. date is an ISO-8601 string; empty means today. When the user
// has no record on or before the date, the default {GoalValue: 0,
// SetDate: nil} is returned.
func (s *GoalService) GetGoal(ctx context.Context, userID, date string) (domain.ResolvedGoal, error) {
	if userID == "" {
		return domain.ResolvedGoal{}, validationf("user ID is required")
	}

	target := domain.NormalizeDay(s.now())
	if date != "" {
		var err error
		if target, err = domain.ParseDay(date); err != nil {
			return domain.ResolvedGoal{}, err
		}
	}

	rec, err := s.repo.LatestGoalOnOrBefore(ctx, userID, target)
	if err != nil {
		return domain.ResolvedGoal{}, err
	}
	if rec == nil {
		return domain.ResolvedGoal{GoalValue: 0, SetDate: nil}, nil
	}
	setDate := rec.SetDate
	return domain.ResolvedGoal{GoalValue: rec.GoalValue, SetDate: &setDate}, nil
}

// GetGoalsInRange resolves the active goal for every day from start to end
// inclusive. The candidate records up to end are fetched once, most recent
// first, and each day takes the first record set on or before it. Days that
// precede the user's first record resolve to a nil goal.
func (s *GoalService) GetGoalsInRange(ctx context.Context, userID, start, end string) ([]domain.DayGoal, error) {
	if userID == "" {
		return nil, validationf("user ID is required")
	}
	if start == "" || end == "" {
		return nil, validationf("start date and end date are required")
	}

	from, err := domain.ParseDay(start)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDay(end)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, validationf("start date must be before or equal to end date")
	}

	records, err := s.repo.GoalsOnOrBefore(ctx, userID, to)
	if err != nil {
		return nil, err
	}

	days := int(to.Sub(from).Hours()/24) + 1
	out := make([]domain.DayGoal, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		entry := domain.DayGoal{Date: d}
		for i := range records {
			if !records[i].SetDate.After(d) {
				v := records[i].GoalValue
				entry.Goal = &v
				break
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// GetHistory returns one page of the user's goal records, most recent first,
// along with the total count for page math.
func (s *GoalService) GetHistory(ctx context.Context, userID string, page, pageSize int) ([]domain.GoalRecord, int, error) {
	if userID == "" {
		return nil, 0, validationf("user ID is required")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	total, err := s.repo.CountGoals(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.repo.ListGoals(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
