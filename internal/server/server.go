package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/store"
	"github.com/meltforce/ironlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog *catalog.Repository
	history *history.Engine
	engine  *workout.Engine
	store   store.Store
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(cat *catalog.Repository, hist *history.Engine, eng *workout.Engine, st store.Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		catalog: cat,
		history: hist,
		engine:  eng,
		store:   st,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/health", s.handleHealth)

	// Reads (no auth; single-user deployment behind tsnet or localhost)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{id}/history", s.handleExerciseHistory)
	s.router.Get("/api/v1/exercises/{id}/stats", s.handleExerciseStats)
	s.router.Get("/api/v1/exercises/{id}/recommendation", s.handleRecommendation)
	s.router.Get("/api/v1/templates", s.handleListTemplates)
	s.router.Get("/api/v1/templates/{id}/personalizations", s.handlePersonalizationCount)
	s.router.Get("/api/v1/templates/{id}/personalizations/{exerciseID}", s.handleGetPersonalization)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/session", s.handleGetSession)
	s.router.Get("/api/v1/backup", s.handleBackupExport)

	// Mutations (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/api/v1/exercises", s.handleAddExercise)
		r.Put("/api/v1/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/api/v1/exercises/{id}", s.handleDeleteExercise)
		r.Post("/api/v1/exercises/{id}/recommendation/dismiss", s.handleDismissRecommendation)

		r.Post("/api/v1/templates", s.handleAddTemplate)
		r.Put("/api/v1/templates/{id}", s.handleUpdateTemplate)
		r.Delete("/api/v1/templates/{id}", s.handleDeleteTemplate)
		r.Put("/api/v1/templates/{id}/personalizations/{exerciseID}", s.handleSavePersonalization)
		r.Delete("/api/v1/templates/{id}/personalizations/{exerciseID}", s.handleDeletePersonalization)

		r.Post("/api/v1/session", s.handleStartSession)
		r.Delete("/api/v1/session", s.handleCancelSession)
		r.Post("/api/v1/session/complete", s.handleCompleteSession)
		r.Post("/api/v1/session/edit/{workoutID}", s.handleLoadForEditing)
		r.Post("/api/v1/session/exercises/{idx}/sets/{setIdx}/click", s.handleClickSet)
		r.Put("/api/v1/session/exercises/{idx}/settings", s.handleExerciseSettings)
		r.Put("/api/v1/session/exercises/{idx}/weight", s.handleWorkingWeight)
		r.Post("/api/v1/session/exercises/{idx}/switch", s.handleSwitchExercise)

		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/api/v1/backup/restore", s.handleBackupRestore)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
