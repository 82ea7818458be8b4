// Package seed populates the default exercise catalog and workout templates.
// The seed is versioned: when the stored data version is behind, exercises and
// templates are replaced wholesale while completed workouts and
// personalizations are left untouched.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/models"
)

// DataVersion is bumped whenever the built-in catalog changes.
const DataVersion = 2

type seedExercise struct {
	name        string
	emoji       string
	muscleGroup string
	defaultSets int
}

var defaultExercises = []seedExercise{
	{"Barbell Bench Press", "💪", "Chest", 4},
	{"Incline Dumbbell Bench Press", "💪", "Chest", 4},
	{"Incline Barbell Bench Press", "💪", "Chest", 4},
	{"Flat Bench Dumbbell Flye", "🦅", "Chest", 4},

	{"Bent Over Row", "🚣", "Back", 4},
	{"Lat Pull Down", "⬇️", "Back", 4},
	{"Seated Cable Row", "🚣", "Back", 4},
	{"One Arm Dumbbell Row", "💪", "Back", 4},
	{"Deadlift", "🏋️", "Back", 4},

	{"Overhead Press", "🤸", "Shoulders", 3},
	{"Dumbbell Lateral Raise", "🦅", "Shoulders", 4},

	{"Barbell Curl", "💪", "Arms", 3},
	{"Seated Incline Dumbbell Curl", "💪", "Arms", 4},
	{"Skullcrusher", "💀", "Arms", 3},
	{"Cable Tricep Extension", "💪", "Arms", 4},

	{"Squat", "🦵", "Legs", 4},
	{"Front Squat", "🦵", "Legs", 4},
	{"Leg Press", "🦿", "Legs", 4},
	{"Leg Curl", "🦵", "Legs", 4},
	{"Leg Extension", "🦵", "Legs", 4},
	{"Barbell Lunge", "🚶", "Legs", 4},

	{"Standing Calf Raise", "🦶", "Calves", 4},
	{"Seated Calf Raise", "🦶", "Calves", 4},
	{"Calf Press", "🦶", "Calves", 4},
}

// phatDay is one template of the built-in PHAT program, as exercise
// name/sets pairs resolved against the seeded catalog.
type phatDay struct {
	name    string
	entries []struct {
		exercise string
		sets     int
	}
}

var phatProgram = []phatDay{
	{"Day 1 - Upper Power", []struct {
		exercise string
		sets     int
	}{
		{"Barbell Bench Press", 4},
		{"Incline Dumbbell Bench Press", 4},
		{"Bent Over Row", 4},
		{"Lat Pull Down", 4},
		{"Overhead Press", 3},
		{"Barbell Curl", 3},
		{"Skullcrusher", 3},
	}},
	{"Day 2 - Lower Power", []struct {
		exercise string
		sets     int
	}{
		{"Squat", 4},
		{"Deadlift", 4},
		{"Leg Press", 5},
		{"Leg Curl", 4},
		{"Standing Calf Raise", 4},
	}},
	{"Day 4 - Upper Hypertrophy", []struct {
		exercise string
		sets     int
	}{
		{"Incline Barbell Bench Press", 4},
		{"Flat Bench Dumbbell Flye", 4},
		{"Seated Cable Row", 4},
		{"One Arm Dumbbell Row", 4},
		{"Dumbbell Lateral Raise", 4},
		{"Seated Incline Dumbbell Curl", 4},
		{"Cable Tricep Extension", 4},
	}},
	{"Day 5 - Lower Hypertrophy", []struct {
		exercise string
		sets     int
	}{
		{"Front Squat", 4},
		{"Barbell Lunge", 4},
		{"Leg Extension", 4},
		{"Leg Curl", 4},
		{"Seated Calf Raise", 4},
		{"Calf Press", 4},
	}},
}

// Run reseeds the catalog when the stored data version is behind. It is a
// one-shot replacement per version bump, never a merge: custom exercises and
// templates are discarded, history and personalizations are kept.
func Run(ctx context.Context, cat *catalog.Repository, log *slog.Logger) error {
	prefs := cat.Preferences(ctx)
	if prefs.DataVersion >= DataVersion {
		return nil
	}

	now := time.Now()

	exercises := make([]models.Exercise, len(defaultExercises))
	byName := make(map[string]string, len(defaultExercises))
	for i, s := range defaultExercises {
		ex := models.Exercise{
			ID:          uuid.NewString(),
			Name:        s.name,
			Emoji:       s.emoji,
			MuscleGroup: s.muscleGroup,
			DefaultSets: s.defaultSets,
			IsCustom:    false,
			CreatedAt:   now,
		}
		exercises[i] = ex
		byName[s.name] = ex.ID
	}

	templates := make([]models.WorkoutTemplate, len(phatProgram))
	for i, day := range phatProgram {
		t := models.WorkoutTemplate{
			ID:         uuid.NewString(),
			Name:       day.name,
			IsPrebuilt: true,
			CreatedAt:  now,
		}
		for j, entry := range day.entries {
			id, ok := byName[entry.exercise]
			if !ok {
				return fmt.Errorf("seed template %q references unknown exercise %q", day.name, entry.exercise)
			}
			t.Exercises = append(t.Exercises, models.TemplateExercise{
				ExerciseID: id,
				Order:      j + 1,
				Sets:       entry.sets,
			})
		}
		templates[i] = t
	}

	if err := cat.ReplaceExercises(ctx, exercises); err != nil {
		return fmt.Errorf("seeding exercises: %w", err)
	}
	if err := cat.ReplaceTemplates(ctx, templates); err != nil {
		return fmt.Errorf("seeding templates: %w", err)
	}

	prefs.DataVersion = DataVersion
	if err := cat.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("saving data version: %w", err)
	}

	log.Info("catalog seeded", "version", DataVersion, "exercises", len(exercises), "templates", len(templates))
	return nil
}
