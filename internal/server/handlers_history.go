package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/ironlog/internal/backup"
	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
)

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	list := s.history.Completed(r.Context())
	if list == nil {
		list = []models.CompletedWorkout{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleGetWorkout returns one completed workout plus how long it remains
// editable.
func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workout, ok := s.history.ByID(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workout":                workout,
		"editableHoursRemaining": s.engine.EditableHoursRemaining(workout.CompletedAt),
	})
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	series := s.history.SeriesFor(r.Context(), chi.URLParam(r, "id"))
	if series == nil {
		series = []history.SeriesPoint{}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleExerciseStats(w http.ResponseWriter, r *http.Request) {
	stats, ok := s.history.StatsFor(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no history for exercise")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	rec := s.history.Recommendation(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]any{
		"recommendation": rec,
		"lastUsedWeight": s.history.LastUsedWeight(r.Context(), chi.URLParam(r, "id")),
	})
}

func (s *Server) handleDismissRecommendation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type models.Recommendation `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	switch req.Type {
	case models.RecommendIncrease:
		s.history.DismissIncrease(r.Context(), id)
	case models.RecommendDecrease:
		s.history.DismissDecrease(r.Context(), id)
	default:
		writeError(w, http.StatusBadRequest, "type must be increase or decrease")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	env, err := backup.Export(r.Context(), s.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleBackupRestore(w http.ResponseWriter, r *http.Request) {
	var env backup.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := backup.Validate(env); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := backup.Restore(r.Context(), s.store, env); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
