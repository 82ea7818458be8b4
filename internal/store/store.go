// Package store provides the persistent key-to-JSON value store the engines
// read and write through. Values are opaque JSON documents; all collection
// logic lives in the repositories above it.
package store

import "context"

// Logical keys for the persisted collections.
const (
	KeyExercises        = "workout_tracker_exercises"
	KeyTemplates        = "workout_tracker_templates"
	KeyCompleted        = "workout_tracker_completed"
	KeyPreferences      = "workout_tracker_preferences"
	KeyPersonalizations = "workout_tracker_template_personalizations"
	KeyDismissals       = "workout_tracker_indication_dismissals"
)

// Store is a synchronous key-value store. Get returns (nil, nil) for an absent
// key; callers treat read failures and malformed values as empty collections.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
