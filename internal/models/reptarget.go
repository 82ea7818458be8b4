package models

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxReps is the target rep count applied when no personalization exists.
const DefaultMaxReps = 12

// DefaultRestSeconds is the rest countdown applied when no personalization exists.
const DefaultRestSeconds = 90

// RepTarget is the target rep configuration for an exercise: either a single
// count applied to every set, or one count per set. The stored JSON form is a
// bare number for the uniform case and an array for the per-set case, which is
// the shape persisted data has always used.
type RepTarget struct {
	uniform int
	perSet  []int
}

// UniformTarget returns a target of n reps for every set.
func UniformTarget(n int) RepTarget {
	return RepTarget{uniform: n}
}

// PerSetTarget returns a target with one rep count per set.
// An empty slice yields the uniform default.
func PerSetTarget(reps []int) RepTarget {
	if len(reps) == 0 {
		return UniformTarget(DefaultMaxReps)
	}
	cp := make([]int, len(reps))
	copy(cp, reps)
	return RepTarget{perSet: cp}
}

// IsPerSet reports whether the target carries per-set counts.
func (t RepTarget) IsPerSet() bool {
	return t.perSet != nil
}

// PerSet returns a copy of the per-set counts, or nil for a uniform target.
func (t RepTarget) PerSet() []int {
	if t.perSet == nil {
		return nil
	}
	cp := make([]int, len(t.perSet))
	copy(cp, t.perSet)
	return cp
}

// Uniform returns the uniform rep count. Only meaningful when IsPerSet is false.
func (t RepTarget) Uniform() int {
	return t.uniform
}

// ForSet returns the target reps for the 0-based set index. For a per-set
// target, indexes past the end repeat the last entry so growing the set count
// never produces a zero target.
func (t RepTarget) ForSet(i int) int {
	if t.perSet == nil {
		return t.uniform
	}
	if i >= len(t.perSet) {
		return t.perSet[len(t.perSet)-1]
	}
	if i < 0 {
		return t.perSet[0]
	}
	return t.perSet[i]
}

// Normalize returns a target valid for the given set count. Uniform targets
// pass through. Per-set targets are truncated, or padded with their last entry,
// so the invariant len(perSet) == sets holds after a sets change.
func (t RepTarget) Normalize(sets int) RepTarget {
	if t.perSet == nil || sets < 1 {
		return t
	}
	if len(t.perSet) == sets {
		return t
	}
	out := make([]int, sets)
	for i := range out {
		out[i] = t.ForSet(i)
	}
	return RepTarget{perSet: out}
}

// Validate checks every rep count against the allowed range.
func (t RepTarget) Validate(min, max int) error {
	if t.perSet == nil {
		if t.uniform < min || t.uniform > max {
			return fmt.Errorf("target reps %d out of range [%d,%d]", t.uniform, min, max)
		}
		return nil
	}
	for i, n := range t.perSet {
		if n < min || n > max {
			return fmt.Errorf("target reps %d for set %d out of range [%d,%d]", n, i+1, min, max)
		}
	}
	return nil
}

// Equal reports whether two targets describe the same configuration.
func (t RepTarget) Equal(o RepTarget) bool {
	if (t.perSet == nil) != (o.perSet == nil) {
		return false
	}
	if t.perSet == nil {
		return t.uniform == o.uniform
	}
	if len(t.perSet) != len(o.perSet) {
		return false
	}
	for i := range t.perSet {
		if t.perSet[i] != o.perSet[i] {
			return false
		}
	}
	return true
}

// MarshalJSON emits a bare number for uniform targets and an array for
// per-set targets.
func (t RepTarget) MarshalJSON() ([]byte, error) {
	if t.perSet != nil {
		return json.Marshal(t.perSet)
	}
	return json.Marshal(t.uniform)
}

// UnmarshalJSON accepts either a number or an array of numbers.
func (t *RepTarget) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*t = RepTarget{uniform: n}
		return nil
	}
	var list []int
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("rep target must be a number or an array of numbers")
	}
	*t = PerSetTarget(list)
	return nil
}
