// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"context"
	"net/http"
	"time"

	"sleepgoals/internal/app"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	goals   *app.GoalService
	store   Pinger
	webDir  string
	limiter *rateLimiter
}

// New creates a Server wired to the given application service and store.
func New(gs *app.GoalService, store Pinger, webDir string) *Server {
	return &Server{goals: gs, store: store, webDir: webDir, limiter: newRateLimiter()}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	goal := http.NewServeMux()
	goal.HandleFunc("/goal", s.handleGoal)
	goal.HandleFunc("/goal/", s.handleGoalByDate)
	goal.HandleFunc("/goal/range", s.handleGoalRange)
	goal.HandleFunc("/goal/history", s.handleGoalHistory)
	withUser := s.userMiddleware(goal)

	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/diagnostics/store", s.handleStoreDiagnostics)
	api.Handle("/goal", withUser)
	api.Handle("/goal/", withUser)
	api.HandleFunc("/", s.handleAPIRoot)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/", staticSite(s.webDir))

	h := s.limiter.middleware(root)
	h = s.loggingMiddleware(h)
	h = metricsMiddleware(h)
	return withNoCache(h)
}

// handleAPIRoot serves the API welcome message and a JSON 404 for every
// unknown API path.
func (s *Server) handleAPIRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "API route not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Alive Sleep Tracker API",
	})
}

func (s *Server) handleStoreDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "error",
			"message": "store unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}
