package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/store"
)

func newTestCatalog() (*catalog.Repository, *store.Memory) {
	st := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return catalog.New(st, log), st
}

// TestRunSeedsFreshStore verifies a fresh store gets the full catalog, the
// four program templates, and the bumped data version.
func TestRunSeedsFreshStore(t *testing.T) {
	cat, _ := newTestCatalog()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Run(ctx, cat, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exercises := cat.Exercises(ctx)
	if len(exercises) != 24 {
		t.Errorf("exercises = %d, want 24", len(exercises))
	}
	for _, ex := range exercises {
		if ex.IsCustom {
			t.Errorf("seeded exercise %q marked custom", ex.Name)
		}
		if ex.ID == "" {
			t.Errorf("seeded exercise %q has no id", ex.Name)
		}
	}

	templates := cat.Templates(ctx)
	if len(templates) != 4 {
		t.Fatalf("templates = %d, want 4", len(templates))
	}
	byID := map[string]bool{}
	for _, ex := range exercises {
		byID[ex.ID] = true
	}
	for _, tpl := range templates {
		if !tpl.IsPrebuilt {
			t.Errorf("template %q not marked prebuilt", tpl.Name)
		}
		for i, entry := range tpl.Exercises {
			if !byID[entry.ExerciseID] {
				t.Errorf("template %q entry %d references unknown exercise", tpl.Name, i)
			}
			if entry.Order != i+1 {
				t.Errorf("template %q entry %d order = %d", tpl.Name, i, entry.Order)
			}
		}
	}

	if got := cat.Preferences(ctx).DataVersion; got != DataVersion {
		t.Errorf("dataVersion = %d, want %d", got, DataVersion)
	}
}

// TestRunIsIdempotentPerVersion verifies a second run at the current version
// changes nothing, even after the user customized the catalog.
func TestRunIsIdempotentPerVersion(t *testing.T) {
	cat, _ := newTestCatalog()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Run(ctx, cat, log); err != nil {
		t.Fatal(err)
	}
	custom, err := cat.AddExercise(ctx, "Face Pull", "", "Shoulders", 3)
	if err != nil {
		t.Fatal(err)
	}

	if err := Run(ctx, cat, log); err != nil {
		t.Fatal(err)
	}
	if _, ok := cat.ExerciseByID(ctx, custom.ID); !ok {
		t.Error("second run at current version must not discard custom exercises")
	}
	if len(cat.Exercises(ctx)) != 25 {
		t.Errorf("exercises = %d, want 25", len(cat.Exercises(ctx)))
	}
}

// TestRunReplacesOutdatedCatalog verifies an outdated version triggers a
// wholesale replacement while completed workouts survive.
func TestRunReplacesOutdatedCatalog(t *testing.T) {
	cat, st := newTestCatalog()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Simulate a version-1 install with custom data and history.
	if err := cat.SavePreferences(ctx, models.Preferences{WeightUnit: "lbs", DataVersion: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := cat.AddExercise(ctx, "Old Custom", "", "Core", 3); err != nil {
		t.Fatal(err)
	}

	hist := history.New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w := models.CompletedWorkout{
		Session:     models.Session{ID: "w1", WorkoutName: "Legacy"},
		CompletedAt: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
	if err := hist.Add(ctx, w); err != nil {
		t.Fatal(err)
	}

	if err := Run(ctx, cat, log); err != nil {
		t.Fatal(err)
	}

	if len(cat.Exercises(ctx)) != 24 {
		t.Errorf("exercises = %d, want 24 after reseed", len(cat.Exercises(ctx)))
	}
	if _, ok := hist.ByID(ctx, "w1"); !ok {
		t.Error("reseed must not touch completed workouts")
	}
	prefs := cat.Preferences(ctx)
	if prefs.DataVersion != DataVersion {
		t.Errorf("dataVersion = %d, want %d", prefs.DataVersion, DataVersion)
	}
	if prefs.WeightUnit != "lbs" {
		t.Errorf("weightUnit = %q, want lbs preserved", prefs.WeightUnit)
	}
}
