package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sleepgoals/internal/app"
	"sleepgoals/internal/domain"
)

type mockGoalRepo struct {
	upsertFn func(ctx context.Context, userID string, day time.Time, value float64) (*domain.GoalRecord, error)
	latestFn func(ctx context.Context, userID string, day time.Time) (*domain.GoalRecord, error)
	allFn    func(ctx context.Context, userID string, day time.Time) ([]domain.GoalRecord, error)
	listFn   func(ctx context.Context, userID string, limit, offset int) ([]domain.GoalRecord, error)
	countFn  func(ctx context.Context, userID string) (int, error)
}

func (m *mockGoalRepo) UpsertGoal(ctx context.Context, userID string, day time.Time, value float64) (*domain.GoalRecord, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, day, value)
	}
	return &domain.GoalRecord{UserID: userID, GoalValue: value, SetDate: day}, nil
}

func (m *mockGoalRepo) LatestGoalOnOrBefore(ctx context.Context, userID string, day time.Time) (*domain.GoalRecord, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockGoalRepo) GoalsOnOrBefore(ctx context.Context, userID string, day time.Time) ([]domain.GoalRecord, error) {
	if m.allFn != nil {
		return m.allFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockGoalRepo) ListGoals(ctx context.Context, userID string, limit, offset int) ([]domain.GoalRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockGoalRepo) CountGoals(ctx context.Context, userID string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedClock(s string) func() time.Time {
	// Clock reads mid-day so tests exercise normalization too.
	return func() time.Time { return day(s).Add(15*time.Hour + 42*time.Minute) }
}

func TestSetGoal_Validation(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		value  float64
	}{
		{"missing user", "", 480},
		{"negative value", "user1", -1},
		{"above one day", "user1", 1441},
		{"far out of range", "user1", 99999},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			repo := &mockGoalRepo{
				upsertFn: func(_ context.Context, _ string, _ time.Time, _ float64) (*domain.GoalRecord, error) {
					called = true
					return nil, nil
				},
			}
			svc := app.NewGoalService(repo)
			_, err := svc.SetGoal(context.Background(), tc.userID, tc.value)

			var ve *app.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if called {
				t.Fatal("repo must not be touched on validation failure")
			}
		})
	}
}

func TestSetGoal_UpsertsToday(t *testing.T) {
	for _, value := range []float64{0, 480, 1440} {
		var gotDay time.Time
		var gotValue float64
		repo := &mockGoalRepo{
			upsertFn: func(_ context.Context, userID string, d time.Time, v float64) (*domain.GoalRecord, error) {
				gotDay, gotValue = d, v
				return &domain.GoalRecord{UserID: userID, GoalValue: v, SetDate: d}, nil
			},
		}
		svc := app.NewGoalServiceAt(repo, fixedClock("2024-01-15"))

		rec, err := svc.SetGoal(context.Background(), "user1", value)
		if err != nil {
			t.Fatalf("SetGoal(%v): %v", value, err)
		}
		if !gotDay.Equal(day("2024-01-15")) {
			t.Errorf("upsert day = %v; want normalized today", gotDay)
		}
		if gotValue != value || rec.GoalValue != value {
			t.Errorf("stored value = %v; want %v", gotValue, value)
		}
	}
}

func TestSetGoal_RepoError(t *testing.T) {
	repo := &mockGoalRepo{
		upsertFn: func(_ context.Context, _ string, _ time.Time, _ float64) (*domain.GoalRecord, error) {
			return nil, errors.New("db down")
		},
	}
	svc := app.NewGoalService(repo)
	if _, err := svc.SetGoal(context.Background(), "user1", 480); err == nil {
		t.Fatal("expected error from repo")
	}
}

func TestGetGoal_DefaultWhenNoRecord(t *testing.T) {
	svc := app.NewGoalService(&mockGoalRepo{})
	got, err := svc.GetGoal(context.Background(), "newuser", "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GoalValue != 0 || got.SetDate != nil {
		t.Errorf("got %+v; want the zero default with nil SetDate", got)
	}
}

func TestGetGoal_CarryForward(t *testing.T) {
	// Goal set on day 1, queried on day 3: day 1's value is still active.
	rec := &domain.GoalRecord{UserID: "user1", GoalValue: 480, SetDate: day("2024-01-01")}
	repo := &mockGoalRepo{
		latestFn: func(_ context.Context, _ string, d time.Time) (*domain.GoalRecord, error) {
			if !d.Equal(day("2024-01-03")) {
				t.Fatalf("queried day = %v; want 2024-01-03", d)
			}
			return rec, nil
		},
	}
	svc := app.NewGoalService(repo)

	got, err := svc.GetGoal(context.Background(), "user1", "2024-01-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GoalValue != 480 {
		t.Errorf("GoalValue = %v; want 480", got.GoalValue)
	}
	if got.SetDate == nil || !got.SetDate.Equal(day("2024-01-01")) {
		t.Errorf("SetDate = %v; want 2024-01-01", got.SetDate)
	}
}

func TestGetGoal_EmptyDateUsesToday(t *testing.T) {
	var gotDay time.Time
	repo := &mockGoalRepo{
		latestFn: func(_ context.Context, _ string, d time.Time) (*domain.GoalRecord, error) {
			gotDay = d
			return nil, nil
		},
	}
	svc := app.NewGoalServiceAt(repo, fixedClock("2024-02-29"))

	if _, err := svc.GetGoal(context.Background(), "user1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotDay.Equal(day("2024-02-29")) {
		t.Errorf("queried day = %v; want normalized today", gotDay)
	}
}

func TestGetGoal_Validation(t *testing.T) {
	svc := app.NewGoalService(&mockGoalRepo{})

	if _, err := svc.GetGoal(context.Background(), "", "2024-01-15"); err == nil {
		t.Fatal("expected error for missing user")
	}
	_, err := svc.GetGoal(context.Background(), "user1", "not-a-date")
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("err = %v; want ErrInvalidDate", err)
	}
}

func TestGetGoalsInRange_Resolution(t *testing.T) {
	// Goals on day 1 (480) and day 4 (420), resolved over days 1-5.
	records := []domain.GoalRecord{
		{UserID: "user1", GoalValue: 420, SetDate: day("2024-01-04")},
		{UserID: "user1", GoalValue: 480, SetDate: day("2024-01-01")},
	}
	repo := &mockGoalRepo{
		allFn: func(_ context.Context, _ string, d time.Time) ([]domain.GoalRecord, error) {
			if !d.Equal(day("2024-01-05")) {
				t.Fatalf("fetch bound = %v; want range end", d)
			}
			return records, nil
		},
	}
	svc := app.NewGoalService(repo)

	got, err := svc.GetGoalsInRange(context.Background(), "user1", "2024-01-01", "2024-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{480, 480, 480, 420, 420}
	if len(got) != len(want) {
		t.Fatalf("len = %d; want %d", len(got), len(want))
	}
	for i, w := range want {
		if !got[i].Date.Equal(day("2024-01-01").AddDate(0, 0, i)) {
			t.Errorf("entry %d date = %v; want ascending days", i, got[i].Date)
		}
		if got[i].Goal == nil || *got[i].Goal != w {
			t.Errorf("entry %d goal = %v; want %v", i, got[i].Goal, w)
		}
	}
}

func TestGetGoalsInRange_DaysBeforeFirstGoal(t *testing.T) {
	records := []domain.GoalRecord{
		{UserID: "user1", GoalValue: 300, SetDate: day("2024-01-03")},
	}
	repo := &mockGoalRepo{
		allFn: func(_ context.Context, _ string, _ time.Time) ([]domain.GoalRecord, error) {
			return records, nil
		},
	}
	svc := app.NewGoalService(repo)

	got, err := svc.GetGoalsInRange(context.Background(), "user1", "2024-01-01", "2024-01-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d; want 4", len(got))
	}
	if got[0].Goal != nil || got[1].Goal != nil {
		t.Error("days before the first record must resolve to nil")
	}
	if got[2].Goal == nil || *got[2].Goal != 300 || got[3].Goal == nil || *got[3].Goal != 300 {
		t.Error("days on or after the first record must carry its value")
	}
}

func TestGetGoalsInRange_SingleDay(t *testing.T) {
	svc := app.NewGoalService(&mockGoalRepo{})
	got, err := svc.GetGoalsInRange(context.Background(), "user1", "2024-01-15", "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d; want 1", len(got))
	}
	if got[0].Goal != nil {
		t.Errorf("goal = %v; want nil for user with no records", got[0].Goal)
	}
}

func TestGetGoalsInRange_Validation(t *testing.T) {
	svc := app.NewGoalService(&mockGoalRepo{})

	tests := []struct {
		name               string
		userID, start, end string
		wantInvalidDate    bool
	}{
		{"missing user", "", "2024-01-01", "2024-01-05", false},
		{"missing start", "user1", "", "2024-01-05", false},
		{"missing end", "user1", "2024-01-01", "", false},
		{"start after end", "user1", "2024-01-05", "2024-01-01", false},
		{"bad start", "user1", "nope", "2024-01-05", true},
		{"bad end", "user1", "2024-01-01", "nope", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetGoalsInRange(context.Background(), tc.userID, tc.start, tc.end)
			if err == nil {
				t.Fatal("expected error")
			}
			var ve *app.ValidationError
			if tc.wantInvalidDate {
				if !errors.Is(err, domain.ErrInvalidDate) {
					t.Errorf("err = %v; want ErrInvalidDate", err)
				}
			} else if !errors.As(err, &ve) {
				t.Errorf("err = %v; want ValidationError", err)
			}
		})
	}
}

func TestGetGoalsInRange_RepoError(t *testing.T) {
	repo := &mockGoalRepo{
		allFn: func(_ context.Context, _ string, _ time.Time) ([]domain.GoalRecord, error) {
			return nil, errors.New("db down")
		},
	}
	svc := app.NewGoalService(repo)
	if _, err := svc.GetGoalsInRange(context.Background(), "user1", "2024-01-01", "2024-01-05"); err == nil {
		t.Fatal("expected error from repo")
	}
}

func TestGetHistory_Paging(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockGoalRepo{
		countFn: func(_ context.Context, _ string) (int, error) { return 23, nil },
		listFn: func(_ context.Context, _ string, limit, offset int) ([]domain.GoalRecord, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.GoalRecord{{UserID: "user1", GoalValue: 480}}, nil
		},
	}
	svc := app.NewGoalService(repo)

	items, total, err := svc.GetHistory(context.Background(), "user1", 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 23 || len(items) != 1 {
		t.Errorf("total = %d, items = %d; want 23, 1", total, len(items))
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Errorf("limit/offset = %d/%d; want 10/20", gotLimit, gotOffset)
	}
}

func TestGetHistory_ClampsBadPaging(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &mockGoalRepo{
		listFn: func(_ context.Context, _ string, limit, offset int) ([]domain.GoalRecord, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	svc := app.NewGoalService(repo)

	if _, _, err := svc.GetHistory(context.Background(), "user1", -4, 5000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 10 || gotOffset != 0 {
		t.Errorf("limit/offset = %d/%d; want clamped 10/0", gotLimit, gotOffset)
	}
}
