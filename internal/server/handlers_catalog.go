package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/models"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	list := s.catalog.Exercises(r.Context())
	if list == nil {
		list = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Emoji       string `json:"emoji"`
		MuscleGroup string `json:"muscleGroup"`
		DefaultSets int    `json:"defaultSets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	ex, err := s.catalog.AddExercise(r.Context(), req.Name, req.Emoji, req.MuscleGroup, req.DefaultSets)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Emoji       *string `json:"emoji"`
		MuscleGroup *string `json:"muscleGroup"`
		DefaultSets *int    `json:"defaultSets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	patch := catalog.ExercisePatch{
		Name:        req.Name,
		Emoji:       req.Emoji,
		MuscleGroup: req.MuscleGroup,
		DefaultSets: req.DefaultSets,
	}
	if err := s.catalog.UpdateExercise(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteExercise(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list := s.catalog.Templates(r.Context())
	if list == nil {
		list = []models.WorkoutTemplate{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string                    `json:"name"`
		Exercises []models.TemplateExercise `json:"exercises"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	t, err := s.catalog.AddTemplate(r.Context(), req.Name, req.Exercises)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string                    `json:"name"`
		Exercises *[]models.TemplateExercise `json:"exercises"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	patch := catalog.TemplatePatch{Name: req.Name, Exercises: req.Exercises}
	if err := s.catalog.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePersonalizationCount(w http.ResponseWriter, r *http.Request) {
	count := s.catalog.CountPersonalizations(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleGetPersonalization(w http.ResponseWriter, r *http.Request) {
	p, ok := s.catalog.Personalization(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID"))
	if !ok {
		writeError(w, http.StatusNotFound, "no personalization")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSavePersonalization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sets     int              `json:"sets"`
		MaxReps  models.RepTarget `json:"maxReps"`
		RestTime int              `json:"restTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p := models.Personalization{Sets: req.Sets, MaxReps: req.MaxReps, RestTime: req.RestTime}
	if err := s.catalog.SavePersonalization(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID"), p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleDeletePersonalization(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeletePersonalization(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
