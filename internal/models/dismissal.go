package models

// Recommendation is the outcome of the weight-recommendation heuristics.
type Recommendation string

const (
	RecommendIncrease Recommendation = "increase"
	RecommendDecrease Recommendation = "decrease"
	RecommendNone     Recommendation = ""
)

// Dismissal suppresses a recommendation until a workout completed after
// DismissedAt satisfies the trigger condition again.
type Dismissal struct {
	DismissedAt   int64  `json:"dismissedAt"` // epoch milliseconds
	LastWorkoutID string `json:"lastWorkoutId,omitempty"`
}

// DismissalSet holds the per-exercise dismissals, one slot per direction.
type DismissalSet struct {
	Increase *Dismissal `json:"increase,omitempty"`
	Decrease *Dismissal `json:"decrease,omitempty"`
}

// Empty reports whether both slots are clear, so the map entry can be dropped.
func (d DismissalSet) Empty() bool {
	return d.Increase == nil && d.Decrease == nil
}
