package adapthttp

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"sleepgoals/internal/app"
	"sleepgoals/internal/domain"
)

// handleGoal serves the bare /goal route: GET resolves today's active goal,
// POST sets today's goal.
func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getGoal(w, r, "")
	case http.MethodPost:
		s.setGoal(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleGoalByDate serves GET /goal/{date}.
func (s *Server) handleGoalByDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	date := strings.TrimPrefix(r.URL.Path, "/goal/")
	s.getGoal(w, r, date)
}

func (s *Server) getGoal(w http.ResponseWriter, r *http.Request, date string) {
	goal, err := s.goals.GetGoal(r.Context(), userFrom(r.Context()), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, goal)
}

func (s *Server) setGoal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value *float64 `json:"value"`
	}
	if err := parseJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if body.Value == nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Goal value is required")
		return
	}

	rec, err := s.goals.SetGoal(r.Context(), userFrom(r.Context()), *body.Value)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"goalValue": rec.GoalValue,
			"setDate":   rec.SetDate,
		},
		"message": "Goal set successfully",
	})
}

// handleGoalRange serves GET /goal/range?start=&end=, resolving the active
// goal for every day in the inclusive range.
func (s *Server) handleGoalRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	items, err := s.goals.GetGoalsInRange(r.Context(), userFrom(r.Context()), start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type rangeEntry struct {
		Date string   `json:"date"`
		Goal *float64 `json:"goal"`
	}
	out := make([]rangeEntry, 0, len(items))
	for _, it := range items {
		out = append(out, rangeEntry{Date: domain.FormatDay(it.Date), Goal: it.Goal})
	}
	respondSuccess(w, http.StatusOK, out)
}

// handleGoalHistory serves GET /goal/history?page=&pageSize=, one page of the
// user's raw goal records for the profile history table.
func (s *Server) handleGoalHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "pageSize", 10)

	items, total, err := s.goals.GetHistory(r.Context(), userFrom(r.Context()), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.GoalRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"goals":   items,
		"total":   total,
	})
}

// respondServiceError maps service errors onto the API envelope: validation
// problems become 400s with a machine-readable code, everything else is a
// generic 500 that leaks no internals.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *app.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
	case errors.Is(err, domain.ErrInvalidDate):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date format")
	default:
		log.Printf("unhandled error: %v", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected error")
	}
}
