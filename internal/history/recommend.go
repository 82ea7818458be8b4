package history

import (
	"context"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/store"
)

type dismissalMap map[string]models.DismissalSet

func (e *Engine) dismissals(ctx context.Context) dismissalMap {
	m, _ := store.ReadJSON[dismissalMap](ctx, e.store, store.KeyDismissals)
	if m == nil {
		m = dismissalMap{}
	}
	return m
}

func (e *Engine) saveDismissals(ctx context.Context, m dismissalMap) {
	if err := store.WriteJSON(ctx, e.store, store.KeyDismissals, m); err != nil {
		e.log.Warn("saving dismissals failed", "error", err)
	}
}

func (e *Engine) dismissal(ctx context.Context, exerciseID string, rec models.Recommendation) *models.Dismissal {
	set := e.dismissals(ctx)[exerciseID]
	if rec == models.RecommendIncrease {
		return set.Increase
	}
	return set.Decrease
}

// writeDismissal records a dismissal for the exercise, dated now and
// referencing the newest workout containing it.
func (e *Engine) writeDismissal(ctx context.Context, exerciseID string, rec models.Recommendation) {
	var lastID string
	for _, w := range e.Completed(ctx) {
		if w.ContainsExercise(exerciseID) {
			lastID = w.ID
			break
		}
	}

	d := &models.Dismissal{DismissedAt: e.now().UnixMilli(), LastWorkoutID: lastID}
	m := e.dismissals(ctx)
	set := m[exerciseID]
	if rec == models.RecommendIncrease {
		set.Increase = d
	} else {
		set.Decrease = d
	}
	m[exerciseID] = set
	e.saveDismissals(ctx, m)
}

func (e *Engine) clearDismissal(ctx context.Context, exerciseID string, rec models.Recommendation) {
	m := e.dismissals(ctx)
	set, ok := m[exerciseID]
	if !ok {
		return
	}
	if rec == models.RecommendIncrease {
		set.Increase = nil
	} else {
		set.Decrease = nil
	}
	if set.Empty() {
		delete(m, exerciseID)
	} else {
		m[exerciseID] = set
	}
	e.saveDismissals(ctx, m)
}

// DismissIncrease suppresses the increase recommendation for the exercise
// until it re-triggers on workouts completed after now.
func (e *Engine) DismissIncrease(ctx context.Context, exerciseID string) {
	e.writeDismissal(ctx, exerciseID, models.RecommendIncrease)
}

// DismissDecrease suppresses the decrease recommendation the same way.
func (e *Engine) DismissDecrease(ctx context.Context, exerciseID string) {
	e.writeDismissal(ctx, exerciseID, models.RecommendDecrease)
}

// qualifying returns the workouts containing the exercise, newest first,
// restricted to those completed strictly after the dismissal when one exists.
func (e *Engine) qualifying(ctx context.Context, exerciseID string, d *models.Dismissal) []models.CompletedWorkout {
	var out []models.CompletedWorkout
	for _, w := range e.Completed(ctx) {
		if !w.ContainsExercise(exerciseID) {
			continue
		}
		if d != nil && w.CompletedAt.UnixMilli() <= d.DismissedAt {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ShouldIncrease reports whether the user likely needs heavier weight: the 2
// most recent qualifying workouts each hit the target on every set. When the
// condition holds against workouts postdating an active dismissal, the
// dismissal is spent and cleared.
func (e *Engine) ShouldIncrease(ctx context.Context, exerciseID string) bool {
	d := e.dismissal(ctx, exerciseID, models.RecommendIncrease)
	workouts := e.qualifying(ctx, exerciseID, d)
	if len(workouts) < 2 {
		return false
	}

	for _, w := range workouts[:2] {
		ex, _ := w.ExerciseByID(exerciseID)
		if len(ex.Sets) == 0 {
			return false
		}
		for _, s := range ex.Sets {
			if !s.Completed || s.CompletedReps != s.MaxReps {
				return false
			}
		}
	}

	if d != nil {
		e.clearDismissal(ctx, exerciseID, models.RecommendIncrease)
	}
	return true
}

// ShouldDecrease reports whether the user likely needs lighter weight: the 3
// most recent qualifying workouts each contain at least one failed set.
func (e *Engine) ShouldDecrease(ctx context.Context, exerciseID string) bool {
	d := e.dismissal(ctx, exerciseID, models.RecommendDecrease)
	workouts := e.qualifying(ctx, exerciseID, d)
	if len(workouts) < 3 {
		return false
	}

	for _, w := range workouts[:3] {
		ex, _ := w.ExerciseByID(exerciseID)
		if len(ex.Sets) == 0 {
			return false
		}
		failed := false
		for _, s := range ex.Sets {
			if !s.Completed || s.CompletedReps < s.MaxReps {
				failed = true
				break
			}
		}
		if !failed {
			return false
		}
	}

	if d != nil {
		e.clearDismissal(ctx, exerciseID, models.RecommendDecrease)
	}
	return true
}

// Recommendation evaluates both heuristics; increase wins when both hold.
func (e *Engine) Recommendation(ctx context.Context, exerciseID string) models.Recommendation {
	if e.ShouldIncrease(ctx, exerciseID) {
		return models.RecommendIncrease
	}
	if e.ShouldDecrease(ctx, exerciseID) {
		return models.RecommendDecrease
	}
	return models.RecommendNone
}

// ProcessCompletionDismissals runs the dismissal side effects for a workout
// that was just persisted. For every exercise in it, a decrease dismissal is
// written so the fresh workout cannot immediately re-trigger the decrease
// signal; an increase dismissal is also written when the weight went up
// against the nearest prior workout with the same exercise, since the user
// already acted on the recommendation.
func (e *Engine) ProcessCompletionDismissals(ctx context.Context, completed models.CompletedWorkout) {
	workouts := e.Completed(ctx)

	for _, ex := range completed.Exercises {
		currentWeight := ex.FirstLoadedWeight()

		var previousWeight float64
		for _, w := range workouts {
			if w.ID == completed.ID || !w.ContainsExercise(ex.ExerciseID) {
				continue
			}
			prev, _ := w.ExerciseByID(ex.ExerciseID)
			previousWeight = prev.FirstLoadedWeight()
			break
		}

		e.DismissDecrease(ctx, ex.ExerciseID)

		if currentWeight > 0 && previousWeight > 0 && currentWeight > previousWeight {
			e.DismissIncrease(ctx, ex.ExerciseID)
		}
	}
}
