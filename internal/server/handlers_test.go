package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/store"
	"github.com/meltforce/ironlog/internal/workout"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalog.New(st, log)
	hist := history.New(st, log)
	eng := workout.New(cat, hist, log, nil)
	return New(cat, hist, eng, st, testKey, log)
}

// do runs one request through the full router, attaching the API key when
// authed is true.
func do(t *testing.T, s *Server, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if authed {
		req.Header.Set("X-API-Key", testKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

// TestHealth verifies the unauthenticated health endpoint.
func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// TestMutationsRequireAPIKey verifies writes are rejected without the key
// while reads stay open.
func TestMutationsRequireAPIKey(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"Curl","defaultSets":3}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated POST status = %d, want 401", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/exercises", "", false)
	if rec.Code != http.StatusOK {
		t.Errorf("unauthenticated GET status = %d, want 200", rec.Code)
	}
}

// TestExerciseCRUDOverHTTP verifies add, list, update, and delete through the
// router.
func TestExerciseCRUDOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"Cable Fly","emoji":"💪","muscleGroup":"Chest","defaultSets":3}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body)
	}
	ex := decode[models.Exercise](t, rec)
	if ex.ID == "" || !ex.IsCustom {
		t.Errorf("created exercise = %+v", ex)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/exercises", "", false)
	list := decode[[]models.Exercise](t, rec)
	if len(list) != 1 {
		t.Fatalf("list = %d entries, want 1", len(list))
	}

	rec = do(t, s, http.MethodPut, "/api/v1/exercises/"+ex.ID, `{"name":"Pec Fly"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodDelete, "/api/v1/exercises/"+ex.ID, "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodDelete, "/api/v1/exercises/"+ex.ID, "", true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

// TestAddExerciseValidationOverHTTP verifies validation failures come back 400.
func TestAddExerciseValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"","defaultSets":3}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"Curl","defaultSets":9}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("9 sets status = %d, want 400", rec.Code)
	}
}

// TestSessionLifecycleOverHTTP drives template creation, session start, a set
// click, and completion through the router.
func TestSessionLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"Bench Press","defaultSets":3}`, true)
	ex := decode[models.Exercise](t, rec)

	rec = do(t, s, http.MethodPost, "/api/v1/templates", `{"name":"Push Day","exercises":[{"exerciseId":"`+ex.ID+`","sets":3}]}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add template status = %d, body %s", rec.Code, rec.Body)
	}
	tpl := decode[models.WorkoutTemplate](t, rec)

	// No session yet.
	rec = do(t, s, http.MethodGet, "/api/v1/session", "", false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty session status = %d, want 404", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session", `{"templateId":"`+tpl.ID+`"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", rec.Code, rec.Body)
	}
	view := decode[sessionView](t, rec)
	if view.Session.WorkoutName != "Push Day" || len(view.Session.Exercises) != 1 {
		t.Errorf("session = %+v", view.Session)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/session/exercises/0/weight", `{"weight":60}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("weight status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session/exercises/0/sets/0/click", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("click status = %d, body %s", rec.Code, rec.Body)
	}
	view = decode[sessionView](t, rec)
	set := view.Session.Exercises[0].Sets[0]
	if !set.Completed || set.Weight != 60 {
		t.Errorf("set after click = %+v", set)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/session/complete", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body %s", rec.Code, rec.Body)
	}
	var result struct {
		Workout models.CompletedWorkout `json:"workout"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/workouts", "", false)
	workouts := decode[[]models.CompletedWorkout](t, rec)
	if len(workouts) != 1 || workouts[0].ID != result.Workout.ID {
		t.Errorf("workouts = %+v", workouts)
	}

	// The fresh workout stays editable, so hours remaining is the full window.
	rec = do(t, s, http.MethodGet, "/api/v1/workouts/"+result.Workout.ID, "", false)
	var detail struct {
		EditableHoursRemaining int `json:"editableHoursRemaining"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatal(err)
	}
	if detail.EditableHoursRemaining != 48 {
		t.Errorf("editableHoursRemaining = %d, want 48", detail.EditableHoursRemaining)
	}
}

// TestStartSessionUnknownTemplate verifies a bad template id comes back 404.
func TestStartSessionUnknownTemplate(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/session", `{"templateId":"ghost"}`, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestCompleteWithoutSession verifies completing with no session is 404.
func TestCompleteWithoutSession(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/session/complete", "", true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestPersonalizationEndpoints verifies save, get, count, and cascade on
// template delete.
func TestPersonalizationEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"Squat","defaultSets":4}`, true)
	ex := decode[models.Exercise](t, rec)
	rec = do(t, s, http.MethodPost, "/api/v1/templates", `{"name":"Leg Day","exercises":[{"exerciseId":"`+ex.ID+`","sets":4}]}`, true)
	tpl := decode[models.WorkoutTemplate](t, rec)

	base := "/api/v1/templates/" + tpl.ID + "/personalizations"
	rec = do(t, s, http.MethodPut, base+"/"+ex.ID, `{"sets":4,"maxReps":[8,10,12,12],"restTime":120}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, base+"/"+ex.ID, "", false)
	p := decode[models.Personalization](t, rec)
	if p.Sets != 4 || p.RestTime != 120 || !p.MaxReps.Equal(models.PerSetTarget([]int{8, 10, 12, 12})) {
		t.Errorf("personalization = %+v", p)
	}

	rec = do(t, s, http.MethodGet, base, "", false)
	count := decode[map[string]int](t, rec)
	if count["count"] != 1 {
		t.Errorf("count = %d, want 1", count["count"])
	}

	rec = do(t, s, http.MethodDelete, "/api/v1/templates/"+tpl.ID, "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete template status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, base, "", false)
	count = decode[map[string]int](t, rec)
	if count["count"] != 0 {
		t.Errorf("count after cascade = %d, want 0", count["count"])
	}
}

// TestDismissEndpoint verifies the type field is required and valid values
// are accepted.
func TestDismissEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises/e1/recommendation/dismiss", `{"type":"increase"}`, true)
	if rec.Code != http.StatusOK {
		t.Errorf("dismiss increase status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/api/v1/exercises/e1/recommendation/dismiss", `{"type":"sideways"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d, want 400", rec.Code)
	}
}

// TestBackupRoundTripOverHTTP verifies export and restore through the router.
func TestBackupRoundTripOverHTTP(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"Deadlift","defaultSets":4}`, true)

	rec := do(t, s, http.MethodGet, "/api/v1/backup", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	exported := rec.Body.String()

	fresh := newTestServer(t)
	rec = do(t, fresh, http.MethodPost, "/api/v1/backup/restore", exported, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, fresh, http.MethodGet, "/api/v1/exercises", "", false)
	list := decode[[]models.Exercise](t, rec)
	if len(list) != 1 || list[0].Name != "Deadlift" {
		t.Errorf("restored exercises = %+v", list)
	}
}

// TestBackupRestoreRejectsInvalid verifies a bad envelope is a 400.
func TestBackupRestoreRejectsInvalid(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/backup/restore", `{"version":99,"data":{}}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
