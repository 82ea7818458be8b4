// Package catalog is the repository for exercises, workout templates,
// per-template personalizations, and preferences. Every write is a
// whole-collection read-modify-write against the store.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/store"
)

// ErrNotFound is returned when an update or delete names an unknown id.
var ErrNotFound = errors.New("not found")

// Repository provides catalog CRUD over the store.
type Repository struct {
	store store.Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Repository.
func New(st store.Store, log *slog.Logger) *Repository {
	return &Repository{store: st, log: log, now: time.Now}
}

// personalizations are stored keyed by template id, then exercise id.
type personalizationMap map[string]map[string]models.Personalization

// Exercises returns all exercises. Missing or malformed data reads as empty.
func (r *Repository) Exercises(ctx context.Context) []models.Exercise {
	list, _ := store.ReadJSON[[]models.Exercise](ctx, r.store, store.KeyExercises)
	return list
}

// ExerciseByID looks up one exercise.
func (r *Repository) ExerciseByID(ctx context.Context, id string) (models.Exercise, bool) {
	for _, ex := range r.Exercises(ctx) {
		if ex.ID == id {
			return ex, true
		}
	}
	return models.Exercise{}, false
}

// AddExercise validates and appends a custom exercise, assigning id and
// creation time.
func (r *Repository) AddExercise(ctx context.Context, name, emoji, muscleGroup string, defaultSets int) (models.Exercise, error) {
	if err := ValidateExerciseName(name); err != nil {
		return models.Exercise{}, err
	}
	if err := ValidateCustomSets(defaultSets); err != nil {
		return models.Exercise{}, err
	}

	ex := models.Exercise{
		ID:          uuid.NewString(),
		Name:        name,
		Emoji:       emoji,
		MuscleGroup: muscleGroup,
		DefaultSets: defaultSets,
		IsCustom:    true,
		CreatedAt:   r.now(),
	}

	list := r.Exercises(ctx)
	list = append(list, ex)
	if err := store.WriteJSON(ctx, r.store, store.KeyExercises, list); err != nil {
		return models.Exercise{}, err
	}
	return ex, nil
}

// ExercisePatch holds the updatable exercise fields; nil fields are kept.
type ExercisePatch struct {
	Name        *string
	Emoji       *string
	MuscleGroup *string
	DefaultSets *int
}

// UpdateExercise applies a patch to the exercise with the given id.
func (r *Repository) UpdateExercise(ctx context.Context, id string, patch ExercisePatch) error {
	if patch.Name != nil {
		if err := ValidateExerciseName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.DefaultSets != nil {
		if err := ValidateCustomSets(*patch.DefaultSets); err != nil {
			return err
		}
	}

	list := r.Exercises(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Name != nil {
			list[i].Name = *patch.Name
		}
		if patch.Emoji != nil {
			list[i].Emoji = *patch.Emoji
		}
		if patch.MuscleGroup != nil {
			list[i].MuscleGroup = *patch.MuscleGroup
		}
		if patch.DefaultSets != nil {
			list[i].DefaultSets = *patch.DefaultSets
		}
		return store.WriteJSON(ctx, r.store, store.KeyExercises, list)
	}
	return ErrNotFound
}

// DeleteExercise removes the exercise. Templates and completed workouts keep
// their snapshots; nothing cascades.
func (r *Repository) DeleteExercise(ctx context.Context, id string) error {
	list := r.Exercises(ctx)
	out := list[:0]
	found := false
	for _, ex := range list {
		if ex.ID == id {
			found = true
			continue
		}
		out = append(out, ex)
	}
	if !found {
		return ErrNotFound
	}
	return store.WriteJSON(ctx, r.store, store.KeyExercises, out)
}

// ReplaceExercises overwrites the whole collection. Used by the seed process.
func (r *Repository) ReplaceExercises(ctx context.Context, list []models.Exercise) error {
	return store.WriteJSON(ctx, r.store, store.KeyExercises, list)
}

// Templates returns all workout templates.
func (r *Repository) Templates(ctx context.Context) []models.WorkoutTemplate {
	list, _ := store.ReadJSON[[]models.WorkoutTemplate](ctx, r.store, store.KeyTemplates)
	return list
}

// TemplateByID looks up one template.
func (r *Repository) TemplateByID(ctx context.Context, id string) (models.WorkoutTemplate, bool) {
	for _, t := range r.Templates(ctx) {
		if t.ID == id {
			return t, true
		}
	}
	return models.WorkoutTemplate{}, false
}

// AddTemplate validates and appends a user template, assigning id and
// creation time and renumbering entries 1..n.
func (r *Repository) AddTemplate(ctx context.Context, name string, entries []models.TemplateExercise) (models.WorkoutTemplate, error) {
	if err := ValidateTemplateName(name); err != nil {
		return models.WorkoutTemplate{}, err
	}

	t := models.WorkoutTemplate{
		ID:         uuid.NewString(),
		Name:       name,
		Exercises:  renumber(entries),
		IsPrebuilt: false,
		CreatedAt:  r.now(),
	}

	list := r.Templates(ctx)
	list = append(list, t)
	if err := store.WriteJSON(ctx, r.store, store.KeyTemplates, list); err != nil {
		return models.WorkoutTemplate{}, err
	}
	return t, nil
}

// TemplatePatch holds the updatable template fields; nil fields are kept.
type TemplatePatch struct {
	Name      *string
	Exercises *[]models.TemplateExercise
}

// UpdateTemplate applies a patch, keeping exercise order contiguous.
func (r *Repository) UpdateTemplate(ctx context.Context, id string, patch TemplatePatch) error {
	if patch.Name != nil {
		if err := ValidateTemplateName(*patch.Name); err != nil {
			return err
		}
	}

	list := r.Templates(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Name != nil {
			list[i].Name = *patch.Name
		}
		if patch.Exercises != nil {
			list[i].Exercises = renumber(*patch.Exercises)
		}
		return store.WriteJSON(ctx, r.store, store.KeyTemplates, list)
	}
	return ErrNotFound
}

// DeleteTemplate removes the template and cascades its personalizations as a
// single logical operation. Completed workouts created from it are untouched.
func (r *Repository) DeleteTemplate(ctx context.Context, id string) error {
	list := r.Templates(ctx)
	out := list[:0]
	found := false
	for _, t := range list {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		return ErrNotFound
	}
	if err := store.WriteJSON(ctx, r.store, store.KeyTemplates, out); err != nil {
		return err
	}
	return r.DeleteAllPersonalizations(ctx, id)
}

// ReplaceTemplates overwrites the whole collection. Used by the seed process.
func (r *Repository) ReplaceTemplates(ctx context.Context, list []models.WorkoutTemplate) error {
	return store.WriteJSON(ctx, r.store, store.KeyTemplates, list)
}

// renumber rewrites Order 1..n in slice order.
func renumber(entries []models.TemplateExercise) []models.TemplateExercise {
	out := make([]models.TemplateExercise, len(entries))
	copy(out, entries)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// Personalization returns the override for (templateID, exerciseID), repaired
// to a consistent shape, or ok=false when none is stored.
func (r *Repository) Personalization(ctx context.Context, templateID, exerciseID string) (models.Personalization, bool) {
	all, _ := store.ReadJSON[personalizationMap](ctx, r.store, store.KeyPersonalizations)
	p, ok := all[templateID][exerciseID]
	if !ok {
		return models.Personalization{}, false
	}
	return p.Normalized(), true
}

// SavePersonalization validates, normalizes, and stores an override.
func (r *Repository) SavePersonalization(ctx context.Context, templateID, exerciseID string, p models.Personalization) error {
	if err := ValidatePersonalization(p); err != nil {
		return err
	}
	p = p.Normalized()
	p.LastModified = r.now()

	all, _ := store.ReadJSON[personalizationMap](ctx, r.store, store.KeyPersonalizations)
	if all == nil {
		all = personalizationMap{}
	}
	if all[templateID] == nil {
		all[templateID] = map[string]models.Personalization{}
	}
	all[templateID][exerciseID] = p
	return store.WriteJSON(ctx, r.store, store.KeyPersonalizations, all)
}

// DeletePersonalization removes one override, dropping the template entry
// when it becomes empty.
func (r *Repository) DeletePersonalization(ctx context.Context, templateID, exerciseID string) error {
	all, _ := store.ReadJSON[personalizationMap](ctx, r.store, store.KeyPersonalizations)
	if all[templateID] == nil {
		return nil
	}
	delete(all[templateID], exerciseID)
	if len(all[templateID]) == 0 {
		delete(all, templateID)
	}
	return store.WriteJSON(ctx, r.store, store.KeyPersonalizations, all)
}

// DeleteAllPersonalizations removes every override for the template.
func (r *Repository) DeleteAllPersonalizations(ctx context.Context, templateID string) error {
	all, _ := store.ReadJSON[personalizationMap](ctx, r.store, store.KeyPersonalizations)
	if _, ok := all[templateID]; !ok {
		return nil
	}
	delete(all, templateID)
	return store.WriteJSON(ctx, r.store, store.KeyPersonalizations, all)
}

// CountPersonalizations returns how many exercises of the template carry an
// override.
func (r *Repository) CountPersonalizations(ctx context.Context, templateID string) int {
	all, _ := store.ReadJSON[personalizationMap](ctx, r.store, store.KeyPersonalizations)
	return len(all[templateID])
}

// Preferences returns the stored preferences, or the defaults.
func (r *Repository) Preferences(ctx context.Context) models.Preferences {
	p, ok := store.ReadJSON[models.Preferences](ctx, r.store, store.KeyPreferences)
	if !ok {
		return models.DefaultPreferences()
	}
	if p.WeightUnit == "" {
		p.WeightUnit = "kg"
	}
	return p
}

// SavePreferences stores the preferences blob.
func (r *Repository) SavePreferences(ctx context.Context, p models.Preferences) error {
	return store.WriteJSON(ctx, r.store, store.KeyPreferences, p)
}
