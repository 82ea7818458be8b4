// Package backup exports and restores the persisted collections as a single
// versioned JSON envelope. Collections travel as raw bytes so an export
// followed by a restore reproduces each stored value byte for byte.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meltforce/ironlog/internal/store"
)

// Version of the backup file format.
const Version = 1

// Data holds the five persisted collections verbatim.
type Data struct {
	Exercises         json.RawMessage `json:"exercises"`
	Templates         json.RawMessage `json:"templates"`
	CompletedWorkouts json.RawMessage `json:"completedWorkouts"`
	Preferences       json.RawMessage `json:"preferences"`
	Personalizations  json.RawMessage `json:"personalizations"`
}

// Envelope is the backup file: a version, a timestamp, and the raw data.
type Envelope struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      Data      `json:"data"`
}

// keyFields maps each storage key to its slot in Data. Dismissals are
// deliberately not part of the backup format.
func keyFields(d *Data) map[string]*json.RawMessage {
	return map[string]*json.RawMessage{
		store.KeyExercises:        &d.Exercises,
		store.KeyTemplates:        &d.Templates,
		store.KeyCompleted:        &d.CompletedWorkouts,
		store.KeyPreferences:      &d.Preferences,
		store.KeyPersonalizations: &d.Personalizations,
	}
}

// emptyValue is what an absent key exports as, so every backup is complete.
func emptyValue(key string) json.RawMessage {
	switch key {
	case store.KeyPersonalizations:
		return json.RawMessage(`{}`)
	case store.KeyPreferences:
		return json.RawMessage(`{"weightUnit":"kg","dataVersion":0}`)
	default:
		return json.RawMessage(`[]`)
	}
}

// Export reads every collection from the store into an envelope.
func Export(ctx context.Context, st store.Store) (Envelope, error) {
	env := Envelope{Version: Version, Timestamp: time.Now()}
	for key, field := range keyFields(&env.Data) {
		raw, err := st.Get(ctx, key)
		if err != nil {
			return Envelope{}, fmt.Errorf("exporting %s: %w", key, err)
		}
		if raw == nil || !json.Valid(raw) {
			raw = emptyValue(key)
		}
		*field = raw
	}
	return env, nil
}

// Restore validates the envelope, then overwrites every key verbatim. The
// validation is all-or-nothing: nothing is written when any field is missing
// or malformed. The writes themselves are not transactional.
func Restore(ctx context.Context, st store.Store, env Envelope) error {
	if err := Validate(env); err != nil {
		return err
	}
	for key, field := range keyFields(&env.Data) {
		if err := st.Set(ctx, key, *field); err != nil {
			return fmt.Errorf("restoring %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects envelopes with an unknown version or any missing or
// invalid collection.
func Validate(env Envelope) error {
	if env.Version < 1 || env.Version > Version {
		return fmt.Errorf("unsupported backup version %d", env.Version)
	}
	for key, field := range keyFields(&env.Data) {
		raw := *field
		if raw == nil {
			return fmt.Errorf("invalid backup: missing %s", key)
		}
		if !json.Valid(raw) {
			return fmt.Errorf("invalid backup: malformed %s", key)
		}
	}
	return nil
}
