package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/workout"
)

// sessionView is what session endpoints return: the session plus the bits of
// engine state a client needs to render it.
type sessionView struct {
	Session     models.Session `json:"session"`
	EditMode    bool           `json:"editMode"`
	RestSeconds int            `json:"restSeconds"`
}

func (s *Server) sessionResponse(sess models.Session) sessionView {
	return sessionView{
		Session:     sess,
		EditMode:    s.engine.EditMode(),
		RestSeconds: s.engine.RestRemaining(),
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	sess, ok := s.engine.Active()
	if !ok {
		writeError(w, http.StatusNotFound, "no session in progress")
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

// handleStartSession starts a session either from a stored template
// (templateId) or from an inline ad-hoc template (name + exercises).
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string                    `json:"templateId"`
		Name       string                    `json:"name"`
		Exercises  []models.TemplateExercise `json:"exercises"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var tpl models.WorkoutTemplate
	if req.TemplateID != "" {
		stored, ok := s.catalog.TemplateByID(r.Context(), req.TemplateID)
		if !ok {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		tpl = stored
	} else {
		tpl = models.WorkoutTemplate{Name: req.Name, Exercises: req.Exercises}
	}

	sess, err := s.engine.Start(r.Context(), tpl)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.sessionResponse(sess))
}

func (s *Server) handleCancelSession(w http.ResponseWriter, _ *http.Request) {
	s.engine.Cancel()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// handleCompleteSession finalizes the session. When the request asks to save
// personalizations, the returned candidates are persisted to the template.
func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SavePersonalizations bool `json:"savePersonalizations"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	completed, candidates, err := s.engine.Complete(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	saved := 0
	if req.SavePersonalizations && completed.WorkoutTemplateID != "" {
		for _, c := range candidates {
			p := models.Personalization{Sets: c.Sets, MaxReps: c.MaxReps, RestTime: c.RestTime}
			if err := s.catalog.SavePersonalization(r.Context(), completed.WorkoutTemplateID, c.ExerciseID, p); err != nil {
				s.log.Warn("saving personalization failed", "exercise", c.ExerciseID, "error", err)
				continue
			}
			saved++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workout":                   completed,
		"personalizationCandidates": candidates,
		"personalizationsSaved":     saved,
	})
}

func (s *Server) handleLoadForEditing(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.LoadForEditing(r.Context(), chi.URLParam(r, "workoutID"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleClickSet(w http.ResponseWriter, r *http.Request) {
	exIdx, ok1 := pathIndex(r, "idx")
	setIdx, ok2 := pathIndex(r, "setIdx")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	sess, err := s.engine.ClickSet(exIdx, setIdx)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleExerciseSettings(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(r, "idx")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	var req struct {
		Sets     int              `json:"sets"`
		MaxReps  models.RepTarget `json:"maxReps"`
		RestTime int              `json:"restTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sess, err := s.engine.UpdateExerciseSettings(exIdx, req.Sets, req.MaxReps, req.RestTime)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleWorkingWeight(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(r, "idx")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	var req struct {
		Weight float64 `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sess, err := s.engine.SetWorkingWeight(exIdx, req.Weight)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) handleSwitchExercise(w http.ResponseWriter, r *http.Request) {
	exIdx, ok := pathIndex(r, "idx")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	var req struct {
		ExerciseID string `json:"exerciseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sess, err := s.engine.SwitchExercise(r.Context(), exIdx, req.ExerciseID)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, history.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workout.ErrEditWindowExpired):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workout.ErrSameExercise):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func pathIndex(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
