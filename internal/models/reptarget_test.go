package models

import (
	"encoding/json"
	"testing"
)

// TestRepTargetJSON verifies the wire shapes: a bare number for uniform
// targets and an array for per-set targets, in both directions.
func TestRepTargetJSON(t *testing.T) {
	tests := []struct {
		name   string
		target RepTarget
		want   string
	}{
		{"uniform", UniformTarget(12), `12`},
		{"per-set", PerSetTarget([]int{8, 10, 12}), `[8,10,12]`},
		{"single-entry per-set", PerSetTarget([]int{5}), `[5]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.target)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshal = %s, want %s", data, tt.want)
			}

			var back RepTarget
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !back.Equal(tt.target) {
				t.Errorf("round trip changed target: got %+v, want %+v", back, tt.target)
			}
		})
	}
}

// TestRepTargetUnmarshalRejectsJunk verifies that non-numeric shapes fail.
func TestRepTargetUnmarshalRejectsJunk(t *testing.T) {
	for _, input := range []string{`"twelve"`, `{"sets":3}`, `[1,"two"]`, `true`} {
		var target RepTarget
		if err := json.Unmarshal([]byte(input), &target); err == nil {
			t.Errorf("unmarshal %s: expected error, got none", input)
		}
	}
}

// TestForSet verifies per-set lookup, including indexes past the end repeating
// the last entry.
func TestForSet(t *testing.T) {
	tests := []struct {
		name   string
		target RepTarget
		idx    int
		want   int
	}{
		{"uniform any index", UniformTarget(10), 4, 10},
		{"per-set in range", PerSetTarget([]int{8, 10, 12}), 1, 10},
		{"per-set past end", PerSetTarget([]int{8, 10, 12}), 5, 12},
		{"per-set negative", PerSetTarget([]int{8, 10, 12}), -1, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.ForSet(tt.idx); got != tt.want {
				t.Errorf("ForSet(%d) = %d, want %d", tt.idx, got, tt.want)
			}
		})
	}
}

// TestNormalize verifies that per-set targets track a sets change: truncated
// when shrinking, padded with the last entry when growing.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		target RepTarget
		sets   int
		want   RepTarget
	}{
		{"uniform untouched", UniformTarget(12), 5, UniformTarget(12)},
		{"shrink", PerSetTarget([]int{8, 10, 12}), 2, PerSetTarget([]int{8, 10})},
		{"grow pads with last", PerSetTarget([]int{8, 10, 12}), 5, PerSetTarget([]int{8, 10, 12, 12, 12})},
		{"same length", PerSetTarget([]int{8, 10}), 2, PerSetTarget([]int{8, 10})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.Normalize(tt.sets); !got.Equal(tt.want) {
				t.Errorf("Normalize(%d) = %+v, want %+v", tt.sets, got, tt.want)
			}
		})
	}
}

// TestRepTargetValidate verifies the rep range check for both shapes.
func TestRepTargetValidate(t *testing.T) {
	if err := UniformTarget(12).Validate(1, 50); err != nil {
		t.Errorf("uniform 12: unexpected error: %v", err)
	}
	if err := UniformTarget(0).Validate(1, 50); err == nil {
		t.Error("uniform 0: expected error, got none")
	}
	if err := PerSetTarget([]int{8, 51}).Validate(1, 50); err == nil {
		t.Error("per-set with 51: expected error, got none")
	}
}

// TestSetState verifies the click-cycle position derived from set fields.
func TestSetState(t *testing.T) {
	tests := []struct {
		name string
		set  SetInSession
		want SetState
	}{
		{"not started", SetInSession{MaxReps: 12}, SetNotStarted},
		{"full", SetInSession{MaxReps: 12, Reps: 12, Completed: true}, SetCompletedFull},
		{"partial", SetInSession{MaxReps: 12, Reps: 7, Completed: true}, SetCompletedPartial},
		{"zero", SetInSession{MaxReps: 12, Reps: 0, Completed: true}, SetCompletedZero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.State(); got != tt.want {
				t.Errorf("State() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestFirstLoadedWeight verifies that the first set with a captured weight
// wins, skipping zero-weight sets.
func TestFirstLoadedWeight(t *testing.T) {
	ex := ExerciseInSession{Sets: []SetInSession{
		{SetNumber: 1, Weight: 0},
		{SetNumber: 2, Weight: 60},
		{SetNumber: 3, Weight: 62.5},
	}}
	if got := ex.FirstLoadedWeight(); got != 60 {
		t.Errorf("FirstLoadedWeight() = %v, want 60", got)
	}

	empty := ExerciseInSession{}
	if got := empty.FirstLoadedWeight(); got != 0 {
		t.Errorf("FirstLoadedWeight() on empty = %v, want 0", got)
	}
}

// TestRoundWeight verifies two-decimal rounding.
func TestRoundWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{62.499, 62.5},
		{62.494, 62.49},
		{0, 0},
		{99.999, 100},
	}
	for _, tt := range tests {
		if got := RoundWeight(tt.in); got != tt.want {
			t.Errorf("RoundWeight(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
