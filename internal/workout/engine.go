// Package workout implements the active-session engine: materializing a
// session from a template, the per-set click cycle, in-session settings and
// exercise changes, completion, and the bounded re-edit of past workouts.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
)

// EditWindow is how long after completion a workout stays editable.
const EditWindow = 48 * time.Hour

var (
	// ErrNoActiveSession is returned by operations that require a session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrEditWindowExpired is returned when a workout is too old to re-edit.
	ErrEditWindowExpired = errors.New("edit window expired")
	// ErrSameExercise is returned when a switch targets the current exercise.
	ErrSameExercise = errors.New("already using this exercise")
)

// PersonalizationCandidate is an in-session settings change the user may
// choose to persist as a template personalization at completion. The engine
// only computes the list; persisting is the caller's decision.
type PersonalizationCandidate struct {
	ExerciseID string           `json:"exerciseId"`
	Sets       int              `json:"sets"`
	MaxReps    models.RepTarget `json:"maxReps"`
	RestTime   int              `json:"restTime"`
}

// Engine owns the singleton active session. All operations run under one
// mutex, so only one logical operation observes the store at a time.
type Engine struct {
	mu      sync.Mutex
	catalog *catalog.Repository
	history *history.Engine
	log     *slog.Logger
	now     func() time.Time
	timer   *RestTimer

	active          *models.Session
	editing         bool
	editID          string
	editCompletedAt time.Time
	pending         map[string]PersonalizationCandidate
}

// New creates an Engine. onRestDone is invoked when a rest countdown reaches
// zero; pass nil when no notification side effect is wanted.
func New(cat *catalog.Repository, hist *history.Engine, log *slog.Logger, onRestDone func()) *Engine {
	return &Engine{
		catalog: cat,
		history: hist,
		log:     log,
		now:     time.Now,
		timer:   NewRestTimer(onRestDone),
		pending: map[string]PersonalizationCandidate{},
	}
}

// Active returns a copy of the current session, or ok=false when none is in
// progress.
func (e *Engine) Active() (models.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return models.Session{}, false
	}
	return cloneSession(*e.active), true
}

// EditMode reports whether the active session is an edit of a past workout.
func (e *Engine) EditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

// RestRemaining returns the seconds left on the rest countdown, 0 when idle.
func (e *Engine) RestRemaining() int {
	return e.timer.Remaining()
}

// Start materializes a session from the template, replacing any session in
// progress. Exercise names and emoji are snapshotted, personalizations
// applied, and the working weight seeded from the most recent history.
func (e *Engine) Start(ctx context.Context, tpl models.WorkoutTemplate) (models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := tpl.Name
	if name == "" {
		name = "Custom Workout"
	}

	session := models.Session{
		ID:                uuid.NewString(),
		WorkoutTemplateID: tpl.ID,
		WorkoutName:       name,
		StartTime:         e.now(),
	}

	for _, entry := range tpl.Exercises {
		ex, found := e.catalog.ExerciseByID(ctx, entry.ExerciseID)
		exName, emoji := "Unknown", ""
		if found {
			exName, emoji = ex.Name, ex.Emoji
		}

		setsCount := entry.Sets
		maxReps := models.UniformTarget(models.DefaultMaxReps)
		restTime := models.DefaultRestSeconds
		if tpl.ID != "" {
			if p, ok := e.catalog.Personalization(ctx, tpl.ID, entry.ExerciseID); ok {
				setsCount = p.Sets
				maxReps = p.MaxReps
				restTime = p.RestTime
			}
		}
		if setsCount < 1 {
			setsCount = 1
		}

		sets := make([]models.SetInSession, setsCount)
		for i := range sets {
			sets[i] = models.SetInSession{
				SetNumber: i + 1,
				MaxReps:   maxReps.ForSet(i),
			}
		}

		session.Exercises = append(session.Exercises, models.ExerciseInSession{
			ExerciseID:    entry.ExerciseID,
			ExerciseName:  exName,
			Emoji:         emoji,
			WorkingWeight: e.history.LastUsedWeight(ctx, entry.ExerciseID),
			RestTime:      restTime,
			Sets:          sets,
		})
	}

	e.resetLocked()
	e.active = &session
	e.log.Info("session started", "workout", session.WorkoutName, "exercises", len(session.Exercises))
	return cloneSession(session), nil
}

// ClickSet advances one set through its cycle: a not-started set completes at
// the target with the working weight captured and the rest timer restarted,
// further clicks decrement the reps, and a click at zero resets the set.
func (e *Engine) ClickSet(exIdx, setIdx int) (models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex, err := e.exerciseAt(exIdx)
	if err != nil {
		return models.Session{}, err
	}
	if setIdx < 0 || setIdx >= len(ex.Sets) {
		return models.Session{}, fmt.Errorf("set index %d out of range", setIdx)
	}

	set := &ex.Sets[setIdx]
	switch {
	case !set.Completed && set.Reps == 0:
		set.Reps = set.MaxReps
		set.Completed = true
		set.CompletedReps = set.MaxReps
		set.Weight = ex.WorkingWeight
		e.timer.Start(ex.RestTime)
	case set.Completed && set.Reps > 0:
		set.Reps--
		set.CompletedReps = set.Reps
	case set.Completed && set.Reps == 0:
		set.Completed = false
		set.CompletedReps = 0
		set.Weight = 0
	}

	return cloneSession(*e.active), nil
}

// SetWorkingWeight sets an exercise's shared working weight, clamped at zero
// and rounded to two decimals. Already-captured set weights are untouched.
func (e *Engine) SetWorkingWeight(exIdx int, weight float64) (models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex, err := e.exerciseAt(exIdx)
	if err != nil {
		return models.Session{}, err
	}
	if weight < 0 {
		weight = 0
	}
	ex.WorkingWeight = models.RoundWeight(weight)
	return cloneSession(*e.active), nil
}

// UpdateExerciseSettings resizes and retargets an exercise's sets. New sets
// are appended not-started; shrinking truncates from the end; targets are
// re-applied and numbering rewritten 1..n. The change is remembered as a
// pending personalization candidate but not persisted here.
func (e *Engine) UpdateExerciseSettings(exIdx int, sets int, maxReps models.RepTarget, restTime int) (models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex, err := e.exerciseAt(exIdx)
	if err != nil {
		return models.Session{}, err
	}

	cfg := models.Personalization{Sets: sets, MaxReps: maxReps, RestTime: restTime}
	if err := catalog.ValidatePersonalization(cfg); err != nil {
		return models.Session{}, err
	}
	if restTime <= 0 {
		restTime = models.DefaultRestSeconds
	}
	ex.RestTime = restTime

	old := len(ex.Sets)
	if sets > old {
		for i := old; i < sets; i++ {
			ex.Sets = append(ex.Sets, models.SetInSession{
				SetNumber: i + 1,
				MaxReps:   maxReps.ForSet(i),
			})
		}
	} else if sets < old {
		ex.Sets = ex.Sets[:sets]
	}
	for i := range ex.Sets {
		ex.Sets[i].MaxReps = maxReps.ForSet(i)
		ex.Sets[i].SetNumber = i + 1
	}

	e.pending[ex.ExerciseID] = PersonalizationCandidate{
		ExerciseID: ex.ExerciseID,
		Sets:       sets,
		MaxReps:    maxReps.Normalize(sets),
		RestTime:   restTime,
	}

	return cloneSession(*e.active), nil
}

// SwitchExercise swaps the exercise identity in place, keeping the working
// weight and the full sets array so logged progress survives the switch.
func (e *Engine) SwitchExercise(ctx context.Context, exIdx int, newExerciseID string) (models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ex, err := e.exerciseAt(exIdx)
	if err != nil {
		return models.Session{}, err
	}
	if ex.ExerciseID == newExerciseID {
		return models.Session{}, ErrSameExercise
	}

	target, found := e.catalog.ExerciseByID(ctx, newExerciseID)
	if !found {
		return models.Session{}, fmt.Errorf("exercise %s: %w", newExerciseID, catalog.ErrNotFound)
	}

	ex.ExerciseID = target.ID
	ex.ExerciseName = target.Name
	ex.Emoji = target.Emoji
	return cloneSession(*e.active), nil
}

// Complete finalizes the session. In edit mode the original record is
// overwritten in place with its completedAt preserved; otherwise a new record
// is appended. Dismissal side effects run either way, and the returned
// candidates are the in-session settings changes that differ from the stored
// personalization; the caller decides whether to persist them.
func (e *Engine) Complete(ctx context.Context) (models.CompletedWorkout, []PersonalizationCandidate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return models.CompletedWorkout{}, nil, ErrNoActiveSession
	}

	end := e.now()
	completed := models.CompletedWorkout{
		Session:  cloneSession(*e.active),
		EndTime:  end,
		Duration: int(math.Round(end.Sub(e.active.StartTime).Minutes())),
	}

	if e.editing {
		completed.ID = e.editID
		completed.CompletedAt = e.editCompletedAt
		if err := e.history.Update(ctx, completed); err != nil {
			return models.CompletedWorkout{}, nil, err
		}
	} else {
		completed.CompletedAt = end
		if err := e.history.Add(ctx, completed); err != nil {
			return models.CompletedWorkout{}, nil, err
		}
	}

	e.history.ProcessCompletionDismissals(ctx, completed)

	candidates := e.divergingCandidates(ctx)
	e.resetLocked()
	e.log.Info("workout completed", "workout", completed.WorkoutName, "duration_min", completed.Duration)
	return completed, candidates, nil
}

// divergingCandidates filters the pending changes down to those that differ
// from what the template already stores.
func (e *Engine) divergingCandidates(ctx context.Context) []PersonalizationCandidate {
	if e.active.WorkoutTemplateID == "" || len(e.pending) == 0 {
		return nil
	}

	var out []PersonalizationCandidate
	for _, ex := range e.active.Exercises {
		c, ok := e.pending[ex.ExerciseID]
		if !ok {
			continue
		}
		stored, has := e.catalog.Personalization(ctx, e.active.WorkoutTemplateID, ex.ExerciseID)
		if has && stored.Sets == c.Sets && stored.RestTime == c.RestTime && stored.MaxReps.Equal(c.MaxReps) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Cancel discards the session unconditionally.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		e.log.Info("session cancelled", "workout", e.active.WorkoutName)
	}
	e.resetLocked()
}

// LoadForEditing clones a completed workout back into the singleton session.
// It fails for unknown ids and for workouts older than the edit window; the
// original id and completedAt are kept for the in-place overwrite.
func (e *Engine) LoadForEditing(ctx context.Context, workoutID string) (models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, found := e.history.ByID(ctx, workoutID)
	if !found {
		return models.Session{}, history.ErrNotFound
	}
	if e.now().Sub(w.CompletedAt) > EditWindow {
		return models.Session{}, ErrEditWindowExpired
	}

	session := cloneSession(w.Session)
	e.resetLocked()
	e.active = &session
	e.editing = true
	e.editID = w.ID
	e.editCompletedAt = w.CompletedAt
	e.log.Info("workout loaded for editing", "workout", w.WorkoutName, "id", w.ID)
	return cloneSession(session), nil
}

// EditableHoursRemaining returns how many whole hours remain in the edit
// window, rounded up, 0 once expired.
func (e *Engine) EditableHoursRemaining(completedAt time.Time) int {
	remaining := EditWindow - e.now().Sub(completedAt)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours()))
}

func (e *Engine) exerciseAt(idx int) (*models.ExerciseInSession, error) {
	if e.active == nil {
		return nil, ErrNoActiveSession
	}
	if idx < 0 || idx >= len(e.active.Exercises) {
		return nil, fmt.Errorf("exercise index %d out of range", idx)
	}
	return &e.active.Exercises[idx], nil
}

// resetLocked clears the singleton and all edit/pending state and stops the
// rest timer. Callers hold the mutex.
func (e *Engine) resetLocked() {
	e.active = nil
	e.editing = false
	e.editID = ""
	e.editCompletedAt = time.Time{}
	e.pending = map[string]PersonalizationCandidate{}
	e.timer.Stop()
}

func cloneSession(s models.Session) models.Session {
	out := s
	out.Exercises = make([]models.ExerciseInSession, len(s.Exercises))
	for i, ex := range s.Exercises {
		cp := ex
		cp.Sets = make([]models.SetInSession, len(ex.Sets))
		copy(cp.Sets, ex.Sets)
		out.Exercises[i] = cp
	}
	return out
}
