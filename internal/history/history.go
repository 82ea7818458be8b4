// Package history owns the completed-workout collection and everything
// derived from it: per-exercise weight series, progress stats, and the
// progressive-overload recommendation heuristics.
package history

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/store"
)

// ErrNotFound is returned when an operation names an unknown workout id.
var ErrNotFound = errors.New("workout not found")

// Engine queries and maintains the completed-workout history.
type Engine struct {
	store store.Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates an Engine.
func New(st store.Store, log *slog.Logger) *Engine {
	return &Engine{store: st, log: log, now: time.Now}
}

// Completed returns all completed workouts, newest first. Missing or
// malformed data reads as empty.
func (e *Engine) Completed(ctx context.Context) []models.CompletedWorkout {
	list, _ := store.ReadJSON[[]models.CompletedWorkout](ctx, e.store, store.KeyCompleted)
	return list
}

// ByID looks up one completed workout.
func (e *Engine) ByID(ctx context.Context, id string) (models.CompletedWorkout, bool) {
	for _, w := range e.Completed(ctx) {
		if w.ID == id {
			return w, true
		}
	}
	return models.CompletedWorkout{}, false
}

// Add appends a workout and keeps the collection sorted by completedAt
// descending.
func (e *Engine) Add(ctx context.Context, w models.CompletedWorkout) error {
	list := e.Completed(ctx)
	list = append(list, w)
	sortNewestFirst(list)
	return store.WriteJSON(ctx, e.store, store.KeyCompleted, list)
}

// Update replaces the workout with the same id in place and re-sorts.
func (e *Engine) Update(ctx context.Context, w models.CompletedWorkout) error {
	list := e.Completed(ctx)
	for i := range list {
		if list[i].ID == w.ID {
			list[i] = w
			sortNewestFirst(list)
			return store.WriteJSON(ctx, e.store, store.KeyCompleted, list)
		}
	}
	return ErrNotFound
}

// Delete removes a workout from history.
func (e *Engine) Delete(ctx context.Context, id string) error {
	list := e.Completed(ctx)
	out := list[:0]
	found := false
	for _, w := range list {
		if w.ID == id {
			found = true
			continue
		}
		out = append(out, w)
	}
	if !found {
		return ErrNotFound
	}
	return store.WriteJSON(ctx, e.store, store.KeyCompleted, out)
}

func sortNewestFirst(list []models.CompletedWorkout) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CompletedAt.After(list[j].CompletedAt)
	})
}

// SeriesPoint is one session's contribution to an exercise's weight chart:
// the heaviest set logged for that exercise that day.
type SeriesPoint struct {
	Date        time.Time `json:"date"`
	Weight      float64   `json:"weight"`
	WorkoutName string    `json:"workoutName"`
}

// SeriesFor returns the exercise's weight series, oldest first.
func (e *Engine) SeriesFor(ctx context.Context, exerciseID string) []SeriesPoint {
	var series []SeriesPoint
	for _, w := range e.Completed(ctx) {
		ex, ok := w.ExerciseByID(exerciseID)
		if !ok {
			continue
		}
		series = append(series, SeriesPoint{
			Date:        w.CompletedAt,
			Weight:      ex.MaxSetWeight(),
			WorkoutName: w.WorkoutName,
		})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// Stats summarizes an exercise's progress for the chart header.
type Stats struct {
	CurrentMax     float64 `json:"currentMax"`
	StartingWeight float64 `json:"startingWeight"`
	PercentChange  float64 `json:"percentChange"`
	Sessions       int     `json:"sessions"`
}

// StatsFor computes progress stats from the series. ok is false when the
// exercise has no history.
func (e *Engine) StatsFor(ctx context.Context, exerciseID string) (Stats, bool) {
	series := e.SeriesFor(ctx, exerciseID)
	if len(series) == 0 {
		return Stats{}, false
	}

	var max float64
	for _, p := range series {
		if p.Weight > max {
			max = p.Weight
		}
	}

	start := series[0].Weight
	var pct float64
	if start > 0 {
		pct = (max - start) / start * 100
	}

	return Stats{
		CurrentMax:     max,
		StartingWeight: start,
		PercentChange:  pct,
		Sessions:       len(series),
	}, true
}

// LastUsedWeight returns the first-set weight of the most recent workout
// containing the exercise, or 0. Sessions seed their working weight from it.
func (e *Engine) LastUsedWeight(ctx context.Context, exerciseID string) float64 {
	for _, w := range e.Completed(ctx) {
		ex, ok := w.ExerciseByID(exerciseID)
		if !ok || len(ex.Sets) == 0 {
			continue
		}
		return ex.Sets[0].Weight
	}
	return 0
}
