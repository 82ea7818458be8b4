package models

import (
	"math"
	"time"
)

// SetState describes where a set is in its click cycle.
type SetState int

const (
	// SetNotStarted: the set has not been tapped yet.
	SetNotStarted SetState = iota
	// SetCompletedFull: target reps recorded, weight captured.
	SetCompletedFull
	// SetCompletedPartial: completed but decremented below the target.
	SetCompletedPartial
	// SetCompletedZero: decremented all the way to zero; the next tap resets.
	SetCompletedZero
)

// SetInSession is one set of one exercise inside a session. Weight is captured
// at the moment the set is first completed, 0 before that.
type SetInSession struct {
	SetNumber     int     `json:"setNumber"`
	Weight        float64 `json:"weight"`
	Reps          int     `json:"reps"`
	MaxReps       int     `json:"maxReps"`
	CompletedReps int     `json:"completedReps"`
	Completed     bool    `json:"completed"`
}

// State derives the cycle position from the stored fields.
func (s SetInSession) State() SetState {
	switch {
	case !s.Completed:
		return SetNotStarted
	case s.Reps == 0:
		return SetCompletedZero
	case s.Reps == s.MaxReps:
		return SetCompletedFull
	default:
		return SetCompletedPartial
	}
}

// ExerciseInSession is an exercise inside a session with its snapshot of name
// and emoji and a single working weight shared by all sets.
type ExerciseInSession struct {
	ExerciseID    string         `json:"exerciseId"`
	ExerciseName  string         `json:"exerciseName"`
	Emoji         string         `json:"emoji"`
	WorkingWeight float64        `json:"workingWeight"`
	RestTime      int            `json:"restTime"`
	Sets          []SetInSession `json:"sets"`
}

// Session is an in-progress workout, including an in-progress edit of a past
// workout. At most one exists at a time.
type Session struct {
	ID                string              `json:"id"`
	WorkoutTemplateID string              `json:"workoutTemplateId,omitempty"`
	WorkoutName       string              `json:"workoutName"`
	StartTime         time.Time           `json:"startTime"`
	Exercises         []ExerciseInSession `json:"exercises"`
}

// CompletedWorkout is an immutable history record: a finished session plus
// completion timestamps and rounded duration in minutes.
type CompletedWorkout struct {
	Session
	EndTime     time.Time `json:"endTime"`
	CompletedAt time.Time `json:"completedAt"`
	Duration    int       `json:"duration"`
}

// ExerciseByID returns the exercise entry for the given exercise id, if present.
func (w CompletedWorkout) ExerciseByID(exerciseID string) (ExerciseInSession, bool) {
	for _, ex := range w.Exercises {
		if ex.ExerciseID == exerciseID {
			return ex, true
		}
	}
	return ExerciseInSession{}, false
}

// ContainsExercise reports whether the workout logged the given exercise.
func (w CompletedWorkout) ContainsExercise(exerciseID string) bool {
	_, ok := w.ExerciseByID(exerciseID)
	return ok
}

// FirstLoadedWeight returns the weight of the first set that captured a
// weight > 0, or 0. The recommendation dismissal logic keys off this value.
func (e ExerciseInSession) FirstLoadedWeight() float64 {
	for _, s := range e.Sets {
		if s.Weight > 0 {
			return s.Weight
		}
	}
	return 0
}

// MaxSetWeight returns the heaviest weight captured across the sets.
func (e ExerciseInSession) MaxSetWeight() float64 {
	var max float64
	for _, s := range e.Sets {
		if s.Weight > max {
			max = s.Weight
		}
	}
	return max
}

// RoundWeight rounds a weight to two decimals, the resolution the app stores.
func RoundWeight(w float64) float64 {
	return math.Round(w*100) / 100
}
