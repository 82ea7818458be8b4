package catalog

import (
	"fmt"
	"strings"

	"github.com/meltforce/ironlog/internal/models"
)

// Validation bounds. Custom exercises are capped at 5 default sets; seeded
// exercises are not re-validated. Personalizations allow up to 10 sets.
const (
	maxNameLen             = 50
	minCustomSets          = 1
	maxCustomSets          = 5
	minPersonalizationSets = 1
	maxPersonalizationSets = 10
	minTargetReps          = 1
	maxTargetReps          = 50
)

// ValidateExerciseName rejects empty or over-long names.
func ValidateExerciseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("exercise name is required")
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("exercise name must be %d characters or less", maxNameLen)
	}
	return nil
}

// ValidateTemplateName rejects empty template names.
func ValidateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("workout name is required")
	}
	return nil
}

// ValidateCustomSets bounds the default set count of a custom exercise.
func ValidateCustomSets(sets int) error {
	if sets < minCustomSets || sets > maxCustomSets {
		return fmt.Errorf("sets must be between %d and %d", minCustomSets, maxCustomSets)
	}
	return nil
}

// ValidatePersonalization bounds sets and rep targets before they reach the
// store or an active session.
func ValidatePersonalization(p models.Personalization) error {
	if p.Sets < minPersonalizationSets || p.Sets > maxPersonalizationSets {
		return fmt.Errorf("sets must be between %d and %d", minPersonalizationSets, maxPersonalizationSets)
	}
	if err := p.MaxReps.Validate(minTargetReps, maxTargetReps); err != nil {
		return fmt.Errorf("max reps must be between %d and %d", minTargetReps, maxTargetReps)
	}
	if p.RestTime < 0 {
		return fmt.Errorf("rest time cannot be negative")
	}
	return nil
}
