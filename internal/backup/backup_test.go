package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/meltforce/ironlog/internal/store"
)

// TestExportRestoreRoundTrip verifies stored values travel through a backup
// byte for byte.
func TestExportRestoreRoundTrip(t *testing.T) {
	src := store.NewMemory()
	ctx := context.Background()

	stored := map[string]string{
		store.KeyExercises:        `[{"id":"e1","name":"Bench Press"}]`,
		store.KeyTemplates:        `[{"id":"t1","name":"Push Day"}]`,
		store.KeyCompleted:        `[{"id":"w1","workoutName":"Push Day"}]`,
		store.KeyPreferences:      `{"weightUnit":"lbs","dataVersion":2}`,
		store.KeyPersonalizations: `{"t1":{"e1":{"sets":4,"maxReps":[8,10,12,12],"restTime":120}}}`,
	}
	for key, value := range stored {
		if err := src.Set(ctx, key, []byte(value)); err != nil {
			t.Fatal(err)
		}
	}

	env, err := Export(ctx, src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if env.Version != Version {
		t.Errorf("version = %d, want %d", env.Version, Version)
	}
	if env.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}

	dst := store.NewMemory()
	if err := Restore(ctx, dst, env); err != nil {
		t.Fatalf("restore: %v", err)
	}
	for key, want := range stored {
		got, err := dst.Get(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, []byte(want)) {
			t.Errorf("%s after round trip = %s, want %s", key, got, want)
		}
	}
}

// TestExportFillsAbsentKeys verifies an export from an empty store is still a
// complete, restorable backup.
func TestExportFillsAbsentKeys(t *testing.T) {
	ctx := context.Background()

	env, err := Export(ctx, store.NewMemory())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(env.Data.Exercises) != `[]` {
		t.Errorf("exercises = %s, want []", env.Data.Exercises)
	}
	if string(env.Data.Personalizations) != `{}` {
		t.Errorf("personalizations = %s, want {}", env.Data.Personalizations)
	}

	var prefs struct {
		WeightUnit string `json:"weightUnit"`
	}
	if err := json.Unmarshal(env.Data.Preferences, &prefs); err != nil || prefs.WeightUnit != "kg" {
		t.Errorf("preferences = %s", env.Data.Preferences)
	}

	if err := Validate(env); err != nil {
		t.Errorf("empty-store export must validate: %v", err)
	}
}

// TestExportReplacesCorruptValues verifies a malformed stored value exports as
// its empty form instead of poisoning the backup.
func TestExportReplacesCorruptValues(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	if err := st.Set(ctx, store.KeyTemplates, []byte(`{broken`)); err != nil {
		t.Fatal(err)
	}

	env, err := Export(ctx, st)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(env.Data.Templates) != `[]` {
		t.Errorf("templates = %s, want []", env.Data.Templates)
	}
}

// TestRestoreRejectsBadEnvelopes verifies nothing is written when validation
// fails.
func TestRestoreRejectsBadEnvelopes(t *testing.T) {
	ctx := context.Background()

	valid, err := Export(ctx, store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Envelope)
	}{
		{"version zero", func(e *Envelope) { e.Version = 0 }},
		{"version from the future", func(e *Envelope) { e.Version = Version + 1 }},
		{"missing collection", func(e *Envelope) { e.Data.CompletedWorkouts = nil }},
		{"malformed collection", func(e *Envelope) { e.Data.Exercises = json.RawMessage(`[oops`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := valid
			tt.mutate(&env)

			dst := store.NewMemory()
			if err := Restore(ctx, dst, env); err == nil {
				t.Fatal("expected validation error, got none")
			}
			for _, key := range []string{store.KeyExercises, store.KeyTemplates, store.KeyCompleted, store.KeyPreferences, store.KeyPersonalizations} {
				if raw, _ := dst.Get(ctx, key); raw != nil {
					t.Errorf("rejected restore wrote %s", key)
				}
			}
		})
	}
}

// TestRestoreDoesNotTouchDismissals verifies dismissals survive a restore.
func TestRestoreDoesNotTouchDismissals(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	if err := st.Set(ctx, store.KeyDismissals, []byte(`{"e1":{"decrease":{"dismissedAt":1}}}`)); err != nil {
		t.Fatal(err)
	}

	env, err := Export(ctx, store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	if err := Restore(ctx, st, env); err != nil {
		t.Fatalf("restore: %v", err)
	}

	raw, err := st.Get(ctx, store.KeyDismissals)
	if err != nil {
		t.Fatal(err)
	}
	if raw == nil {
		t.Error("restore must not remove dismissals")
	}
}
