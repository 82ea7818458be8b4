package models

import "time"

// Exercise is a catalog entry, either seeded or user-created. Completed
// workouts snapshot the name and emoji at session start, so deleting an
// exercise never rewrites history.
type Exercise struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Emoji       string    `json:"emoji"`
	MuscleGroup string    `json:"muscleGroup"`
	DefaultSets int       `json:"defaultSets"`
	IsCustom    bool      `json:"isCustom"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TemplateExercise is one entry of a workout template. Order is 1-based and
// stays contiguous after edits.
type TemplateExercise struct {
	ExerciseID string `json:"exerciseId"`
	Order      int    `json:"order"`
	Sets       int    `json:"sets"`
}

// WorkoutTemplate is a named, ordered list of exercises with default set counts.
type WorkoutTemplate struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Exercises  []TemplateExercise `json:"exercises"`
	IsPrebuilt bool               `json:"isPrebuilt"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Personalization overrides a template's default set/rep/rest configuration
// for one exercise. Absence means template and exercise defaults apply.
type Personalization struct {
	Sets         int       `json:"sets"`
	MaxReps      RepTarget `json:"maxReps"`
	RestTime     int       `json:"restTime"`
	LastModified time.Time `json:"lastModified"`
}

// Normalized returns a copy whose MaxReps list length matches Sets and whose
// RestTime falls back to the default when unset. Stored personalizations are
// repaired on read rather than rejected.
func (p Personalization) Normalized() Personalization {
	p.MaxReps = p.MaxReps.Normalize(p.Sets)
	if p.RestTime <= 0 {
		p.RestTime = DefaultRestSeconds
	}
	return p
}

// Preferences is the small settings blob stored alongside the collections.
type Preferences struct {
	WeightUnit  string `json:"weightUnit"`
	DataVersion int    `json:"dataVersion"`
}

// DefaultPreferences is what a fresh install reads before anything is stored.
func DefaultPreferences() Preferences {
	return Preferences{WeightUnit: "kg", DataVersion: 0}
}
