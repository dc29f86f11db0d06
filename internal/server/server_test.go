package server

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/cache"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/training"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testAPIKey = "test-key"

var testNow = time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newFakeStore()

	sessStore, err := session.OpenStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sessStore.Close() })

	history := cache.NewHistory(1, 0, store.FetchCompletedWorkouts, log)
	s := New(store, session.NewManager(sessStore, store, log), history, ingest.NewProvider(store, log),
		Options{APIKey: testAPIKey, Thresholds: training.DefaultThresholds}, log)
	s.now = func() time.Time { return testNow }
	return s, store
}

// do sends a request through the full router and decodes a JSON response
// into out when out is non-nil.
func do(t *testing.T, s *Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode error: %v", method, path, err)
		}
	}
	return rec
}

func strengthSet(weight, reps float64) models.Set {
	return models.Set{Weight: models.Planned(models.Num(weight)), Reps: models.Planned(models.Num(reps))}
}

func completedBench(id string, date time.Time, weight float64) models.Workout {
	return models.Workout{
		ID:          id,
		UserID:      1,
		Date:        date,
		Status:      models.StatusCompleted,
		TotalWeight: weight * 30,
		Exercises: []models.Exercise{{
			ID: "ex-" + id, Name: "Bench Press", Category: models.CategoryCompound,
			Sets: []models.Set{strengthSet(weight, 10), strengthSet(weight, 10), strengthSet(weight, 10)},
		}},
	}
}

// TestPlanStartFinishFlow walks a scheduled plan through a live session to a
// completed workout and checks the history endpoint sees the result.
func TestPlanStartFinishFlow(t *testing.T) {
	s, store := newTestServer(t)

	plan := models.NewPlan(testNow.AddDate(0, 0, 1))
	squat := plan.AddExercise("Squat", models.CategoryCompound, nil)
	plan.Exercise(squat).Sets = []models.Set{strengthSet(100, 5)}
	plan.AddExercise("Plank", models.CategoryBodyweight, nil)

	var saved models.Workout
	if rec := do(t, s, http.MethodPost, "/api/v1/plans", plan, &saved); rec.Code != http.StatusOK {
		t.Fatalf("POST plans status = %d: %s", rec.Code, rec.Body)
	}
	if saved.Status != models.StatusScheduled {
		t.Errorf("plan status = %q, want scheduled", saved.Status)
	}

	var scheduled []models.Workout
	do(t, s, http.MethodGet, "/api/v1/scheduled", nil, &scheduled)
	if len(scheduled) != 1 {
		t.Fatalf("scheduled = %d, want 1", len(scheduled))
	}

	var view struct {
		Workout models.Workout     `json:"workout"`
		State   training.Sequencer `json:"state"`
		Current *models.Exercise   `json:"current"`
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/scheduled/"+plan.ID+"/start", nil, &view); rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	if view.State.Index != 0 || view.State.Round != 1 || view.Current == nil || view.Current.Name != "Squat" {
		t.Errorf("start view = %+v current %v", view.State, view.Current)
	}
	if got := store.workouts[plan.ID].Status; got != models.StatusStarted {
		t.Errorf("stored plan status = %q, want started", got)
	}

	in := session.SetInput{Weight: models.Num(105), Reps: models.Num(5), Completed: true}
	if rec := do(t, s, http.MethodPut, "/api/v1/session/exercises/"+squat+"/sets/0", in, nil); rec.Code != http.StatusOK {
		t.Fatalf("log set status = %d: %s", rec.Code, rec.Body)
	}
	do(t, s, http.MethodPost, "/api/v1/session/advance", nil, &view)
	if view.State.Index != 1 {
		t.Errorf("after advance index = %d, want 1", view.State.Index)
	}

	var done models.Workout
	if rec := do(t, s, http.MethodPost, "/api/v1/session/finish", map[string]any{"rating": 9}, &done); rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d: %s", rec.Code, rec.Body)
	}
	if done.Status != models.StatusCompleted || done.Rating != 9 || done.TotalWeight != 525 {
		t.Errorf("finished workout = status %q rating %d total %v", done.Status, done.Rating, done.TotalWeight)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/session", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("session after finish status = %d, want 404", rec.Code)
	}

	var history []training.FormattedEntry
	do(t, s, http.MethodGet, "/api/v1/exercises/history?name=Squat", nil, &history)
	if len(history) != 1 || history[0].Sets != "105×5" {
		t.Errorf("history = %+v, want one entry 105×5", history)
	}
}

// TestStartSessionTwiceConflicts verifies a second start is refused while a
// workout is in progress.
func TestStartSessionTwiceConflicts(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodPost, "/api/v1/session", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("first start status = %d: %s", rec.Code, rec.Body)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/session", nil, nil); rec.Code != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/session", nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("discard status = %d, want 204", rec.Code)
	}
}

// TestSessionSupersetRules verifies the logging rules inside a superset are
// enforced over HTTP: only the current round's slot can be logged and the set
// list cannot be edited.
func TestSessionSupersetRules(t *testing.T) {
	s, _ := newTestServer(t)
	w := models.NewPlan(testNow)
	a := w.AddExercise("Squat", models.CategoryCompound, nil)
	b := w.AddExercise("Lunge", models.CategoryCompound, nil)
	if _, err := w.CreateSuperset("Legs", []string{a, b}, 2); err != nil {
		t.Fatal(err)
	}

	var view struct {
		ActiveSets  []int `json:"active_sets"`
		CanEditSets bool  `json:"can_edit_sets"`
		Rounds      int   `json:"rounds"`
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/session", w, &view); rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	if len(view.ActiveSets) != 1 || view.ActiveSets[0] != 0 || view.CanEditSets || view.Rounds != 2 {
		t.Errorf("view = %+v, want active [0], no set editing, 2 rounds", view)
	}

	in := session.SetInput{Weight: models.Num(80), Reps: models.Num(8)}
	if rec := do(t, s, http.MethodPut, "/api/v1/session/exercises/"+a+"/sets/1", in, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("log round-2 slot in round 1 status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/session/exercises/"+a+"/sets", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("add set in superset status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/session/navigate", map[string]int{"index": 7}, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("navigate out of range status = %d, want 400", rec.Code)
	}
}

// TestSessionEndpointsWithoutSession verifies every session operation
// reports 404 when nothing is in progress.
func TestSessionEndpointsWithoutSession(t *testing.T) {
	s, _ := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/session"},
		{http.MethodPost, "/api/v1/session/advance"},
		{http.MethodPost, "/api/v1/session/finish"},
	} {
		if rec := do(t, s, tc.method, tc.path, nil, nil); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}

// TestIndicatorAndSuggestions verifies the training endpoints read the
// completed history and honour per-request goal overrides.
func TestIndicatorAndSuggestions(t *testing.T) {
	s, store := newTestServer(t)
	store.add(
		completedBench("11111111-1111-1111-1111-111111111111", testNow.AddDate(0, 0, -7), 100),
		completedBench("22222222-2222-2222-2222-222222222222", testNow.AddDate(0, 0, -3), 110),
	)

	var ind training.Indicator
	do(t, s, http.MethodGet, "/api/v1/exercises/indicator?name=Bench+Press", nil, &ind)
	if ind.Type != training.IndicatorProgress || ind.Change != "+10%" {
		t.Errorf("indicator = %+v, want progress +10%%", ind)
	}

	var res training.ProgressionResult
	do(t, s, http.MethodGet, "/api/v1/exercises/suggestions?name=Bench+Press&goal=strength", nil, &res)
	if !res.HasHistory || len(res.Suggestions) == 0 {
		t.Fatalf("suggestions = %+v", res)
	}
	if first := res.Suggestions[0]; first.Type != training.SuggestWeight || first.Weight != 112.5 {
		t.Errorf("first suggestion = %+v, want weight 112.5", first)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/exercises/indicator", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", rec.Code)
	}
}

// TestHistoryCacheInvalidatedOnWrite verifies reads share one load until a
// workout is saved.
func TestHistoryCacheInvalidatedOnWrite(t *testing.T) {
	s, store := newTestServer(t)
	store.add(completedBench("11111111-1111-1111-1111-111111111111", testNow.AddDate(0, 0, -1), 100))

	do(t, s, http.MethodGet, "/api/v1/workouts", nil, nil)
	do(t, s, http.MethodGet, "/api/v1/progress?range=week", nil, nil)
	if store.loads != 1 {
		t.Errorf("loads after two reads = %d, want 1", store.loads)
	}

	w := completedBench("33333333-3333-3333-3333-333333333333", testNow, 120)
	if rec := do(t, s, http.MethodPost, "/api/v1/workouts", w, nil); rec.Code != http.StatusOK {
		t.Fatalf("persist status = %d: %s", rec.Code, rec.Body)
	}
	var all []models.Workout
	do(t, s, http.MethodGet, "/api/v1/workouts", nil, &all)
	if store.loads != 2 || len(all) != 2 {
		t.Errorf("after write: loads = %d, workouts = %d, want 2 and 2", store.loads, len(all))
	}
}

// TestWorkoutNotFound verifies lookups of unknown or malformed ids.
func TestWorkoutNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/api/v1/workouts/not-a-uuid", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/workouts/44444444-4444-4444-4444-444444444444", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/scheduled/44444444-4444-4444-4444-444444444444", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete unknown scheduled status = %d, want 404", rec.Code)
	}
}

// TestPersistRejectsBrokenSuperset verifies structural validation on save.
func TestPersistRejectsBrokenSuperset(t *testing.T) {
	s, _ := newTestServer(t)
	w := completedBench("55555555-5555-5555-5555-555555555555", testNow, 100)
	w.Supersets = []models.Superset{{ID: "ss", ExerciseIDs: []string{"ex-" + w.ID}, Rounds: 3}}
	if rec := do(t, s, http.MethodPost, "/api/v1/workouts", w, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestDashboard verifies the fan-out returns every section.
func TestDashboard(t *testing.T) {
	s, store := newTestServer(t)
	store.add(completedBench("11111111-1111-1111-1111-111111111111", testNow.AddDate(0, 0, -2), 100))
	store.profiles[1] = models.Profile{UserID: 1, TrainingExperience: "advanced", PrimaryGoal: "strength"}

	var d dashboard
	if rec := do(t, s, http.MethodGet, "/api/v1/dashboard", nil, &d); rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if d.User.Login != "local" || d.Profile.TrainingExperience != "advanced" {
		t.Errorf("user/profile = %+v / %+v", d.User, d.Profile)
	}
	if len(d.Recent) != 1 || d.Week.TotalWorkouts != 1 || d.Week.TotalWeight != 3000 {
		t.Errorf("recent = %d, week = %+v", len(d.Recent), d.Week)
	}
	if d.Scheduled == nil {
		t.Error("scheduled should be an empty list, not null")
	}
}

// TestProfileNormalized verifies unknown profile values are stored as defaults.
func TestProfileNormalized(t *testing.T) {
	s, store := newTestServer(t)
	var p models.Profile
	do(t, s, http.MethodPut, "/api/v1/profile", map[string]string{"training_experience": "Advanced", "primary_goal": "fun"}, &p)
	if p.TrainingExperience != "advanced" || p.PrimaryGoal != "hypertrophy" {
		t.Errorf("profile = %+v", p)
	}
	if store.profiles[1].PrimaryGoal != "hypertrophy" {
		t.Errorf("stored profile = %+v", store.profiles[1])
	}
}

// TestCatalogCRUD verifies the exercise catalog endpoints and focus filtering.
func TestCatalogCRUD(t *testing.T) {
	s, _ := newTestServer(t)
	var created models.CatalogExercise
	body := map[string]any{"name": " Pull Up ", "category": "Bodyweight", "focus_areas": []string{"Back"}}
	if rec := do(t, s, http.MethodPost, "/api/v1/exercises/catalog", body, &created); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	if created.Name != "Pull Up" || created.Category != models.CategoryBodyweight {
		t.Errorf("created = %+v", created)
	}
	do(t, s, http.MethodPost, "/api/v1/exercises/catalog", map[string]any{"name": "Squat", "focus_areas": []string{"Legs"}}, nil)

	var back []models.CatalogExercise
	do(t, s, http.MethodGet, "/api/v1/exercises/catalog?focus_area=Back", nil, &back)
	if len(back) != 1 || back[0].ID != created.ID {
		t.Errorf("Back catalog = %+v", back)
	}

	if rec := do(t, s, http.MethodPost, "/api/v1/exercises/catalog", map[string]any{"name": "  "}, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/exercises/catalog/"+created.ID, nil, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodPut, "/api/v1/exercises/catalog/"+created.ID, body, nil); rec.Code != http.StatusNotFound {
		t.Errorf("update deleted status = %d, want 404", rec.Code)
	}
}

func importRequest(t *testing.T, body []byte, contentType string, gz bool) *http.Request {
	t.Helper()
	if gz {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write(body)
		zw.Close()
		body = buf.Bytes()
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-API-Key", testAPIKey)
	if gz {
		req.Header.Set("Content-Encoding", "gzip")
	}
	return req
}

// TestImportAuth verifies the import endpoint requires the API key.
func TestImportAuth(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(`[]`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(`[]`))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}
}

// TestExportImportRoundTrip verifies an export imports back as duplicates
// and that gzip bodies are accepted and logged.
func TestExportImportRoundTrip(t *testing.T) {
	s, store := newTestServer(t)
	store.add(completedBench("11111111-1111-1111-1111-111111111111", testNow.AddDate(0, 0, -2), 100))

	rec := do(t, s, http.MethodGet, "/api/v1/export", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "liftlog-export-2026-03-20.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	exported := rec.Body.Bytes()

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, importRequest(t, exported, "application/json", true))
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body)
	}
	var result ingest.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.WorkoutsReceived != 1 || result.WorkoutsSkipped != 1 || result.WorkoutsInserted != 0 {
		t.Errorf("result = %+v, want 1 received as duplicate", result)
	}

	var logs []map[string]any
	do(t, s, http.MethodGet, "/api/v1/import/logs", nil, &logs)
	if len(logs) != 1 || logs[0]["status"] != "success" {
		t.Errorf("import logs = %+v", logs)
	}
}

// TestImportNewWorkouts verifies imported workouts reach the history.
func TestImportNewWorkouts(t *testing.T) {
	s, _ := newTestServer(t)
	w := completedBench("", testNow.AddDate(0, 0, -1), 60)
	w.ID = "legacy-42"
	data, _ := json.Marshal([]models.Workout{w})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, importRequest(t, data, "application/json", false))
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body)
	}

	var all []models.Workout
	do(t, s, http.MethodGet, "/api/v1/workouts", nil, &all)
	if len(all) != 1 || all[0].ID != ingest.StableID("legacy-42") {
		t.Errorf("workouts = %+v", all)
	}
}

// TestImportBadBody verifies an unreadable export is a 400 and is logged as an error.
func TestImportBadBody(t *testing.T) {
	s, store := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, importRequest(t, []byte(`{not json`), "application/json", false))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(store.importLogs) != 1 || store.importLogs[0].Status != "error" {
		t.Errorf("import logs = %+v", store.importLogs)
	}
}

// TestMetricsEndpoint verifies request counters are exported by route pattern.
func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/api/v1/workouts/44444444-4444-4444-4444-444444444444", nil, nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil, nil)
	body := rec.Body.String()
	if !strings.Contains(body, `liftlog_http_requests_total{method="GET",route="/api/v1/workouts/{id}",status="404"} 1`) {
		t.Errorf("metrics missing request counter:\n%s", body)
	}
	if !strings.Contains(body, "liftlog_history_cache_hits_total") {
		t.Error("metrics missing cache counters")
	}
}

// TestMCPNotMounted verifies /mcp answers 404 until a handler is set.
func TestMCPNotMounted(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodPost, "/mcp", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	s.SetMCP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	if rec := do(t, s, http.MethodPost, "/mcp", nil, nil); rec.Code != http.StatusAccepted {
		t.Errorf("mounted status = %d, want 202", rec.Code)
	}
}

// TestStartSessionNormalizesPlan verifies an ad-hoc session gets the same
// treatment as a saved plan: categories are canonical and a superset split
// by another exercise is gathered so every exercise is reached.
func TestStartSessionNormalizesPlan(t *testing.T) {
	s, _ := newTestServer(t)
	w := models.Workout{
		Exercises: []models.Exercise{
			{ID: "a", Name: "Squat", Category: "Compound", SupersetID: "ss", Sets: []models.Set{strengthSet(100, 5)}},
			{ID: "x", Name: "Bike", Category: "Cardio", Sets: make([]models.Set, 1)},
			{ID: "b", Name: "Lunge", Category: "compound", SupersetID: "ss", Sets: []models.Set{strengthSet(40, 8)}},
		},
		Supersets: []models.Superset{{ID: "ss", ExerciseIDs: []string{"a", "b"}, Rounds: 2}},
	}

	var view struct {
		Workout models.Workout `json:"workout"`
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/session", w, &view); rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}
	var order, categories []string
	for _, ex := range view.Workout.Exercises {
		order = append(order, ex.ID)
		categories = append(categories, ex.Category)
	}
	if diff := cmp.Diff([]string{"a", "b", "x"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{models.CategoryCompound, models.CategoryCompound, models.CategoryCardio}, categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if got := len(view.Workout.Exercises[0].Sets); got != 2 {
		t.Errorf("Squat sets = %d, want one per round (2)", got)
	}

	var steps int
	for ; steps < 10; steps++ {
		var v struct {
			State training.Sequencer `json:"state"`
		}
		do(t, s, http.MethodPost, "/api/v1/session/advance", nil, &v)
		if v.State.Complete {
			break
		}
	}
	if steps+1 != 5 {
		t.Errorf("advances to complete = %d, want 5", steps+1)
	}
}

// savedPlan stores a draft with Squat, Lunge and Bench Press and returns it.
func savedPlan(t *testing.T, s *Server) models.Workout {
	t.Helper()
	plan := models.NewPlan(testNow.AddDate(0, 0, 1))
	plan.AddExercise("Squat", models.CategoryCompound, nil)
	plan.AddExercise("Lunge", models.CategoryCompound, nil)
	plan.AddExercise("Bench Press", models.CategoryCompound, nil)
	var saved models.Workout
	if rec := do(t, s, http.MethodPost, "/api/v1/plans", plan, &saved); rec.Code != http.StatusOK {
		t.Fatalf("POST plans status = %d: %s", rec.Code, rec.Body)
	}
	return saved
}

// TestPlanEditing verifies exercises and supersets can be added and removed
// on a stored plan and each change is persisted.
func TestPlanEditing(t *testing.T) {
	s, store := newTestServer(t)
	plan := savedPlan(t, s)
	squat, lunge, bench := plan.Exercises[0].ID, plan.Exercises[1].ID, plan.Exercises[2].ID
	edit := func(method, path string, body any, want int) models.Workout {
		t.Helper()
		var got models.Workout
		if rec := do(t, s, method, "/api/v1/plans/"+plan.ID+path, body, &got); rec.Code != want {
			t.Fatalf("%s %s status = %d, want %d: %s", method, path, rec.Code, want, rec.Body)
		}
		return got
	}

	got := edit(http.MethodPost, "/exercises", map[string]string{"name": "Treadmill", "category": "Cardio"}, http.StatusOK)
	if n := len(got.Exercises); n != 4 || got.Exercises[3].Category != models.CategoryCardio {
		t.Errorf("after add: %d exercises, last %+v", n, got.Exercises[n-1])
	}

	body := map[string]any{"name": "Legs", "exercise_ids": []string{squat, bench}, "rounds": 4}
	got = edit(http.MethodPost, "/supersets", body, http.StatusOK)
	if len(got.Supersets) != 1 || got.Exercises[1].ID != bench {
		t.Fatalf("superset not gathered: %+v", got.Exercises)
	}
	ssID := got.Supersets[0].ID
	stored, _ := store.GetWorkout(context.Background(), plan.ID, 1)
	if len(stored.Supersets) != 1 || len(stored.Exercise(squat).Sets) != 4 {
		t.Errorf("stored plan = %+v, want the superset with 4 sets per member", stored)
	}

	edit(http.MethodPost, "/supersets", map[string]any{"exercise_ids": []string{lunge}}, http.StatusBadRequest)
	edit(http.MethodDelete, "/exercises/"+lunge+"/superset", nil, http.StatusNotFound)

	got = edit(http.MethodDelete, "/exercises/"+squat+"/superset", nil, http.StatusOK)
	if len(got.Supersets) != 0 || got.Exercise(bench).SupersetID != "" {
		t.Errorf("superset left with one member should be deleted: %+v", got.Supersets)
	}
	edit(http.MethodDelete, "/supersets/"+ssID, nil, http.StatusNotFound)

	body["exercise_ids"] = []string{squat, lunge}
	got = edit(http.MethodPost, "/supersets", body, http.StatusOK)
	got = edit(http.MethodDelete, "/supersets/"+got.Supersets[0].ID, nil, http.StatusOK)
	if len(got.Supersets) != 0 || got.Exercise(squat).SupersetID != "" {
		t.Errorf("after delete: %+v", got)
	}

	got = edit(http.MethodDelete, "/exercises/"+lunge, nil, http.StatusOK)
	if got.Exercise(lunge) != nil || len(got.Exercises) != 3 {
		t.Errorf("after remove: %+v", got.Exercises)
	}
	edit(http.MethodDelete, "/exercises/"+lunge, nil, http.StatusNotFound)
}

// TestPlanEditingOnlyPlans verifies completed workouts and unknown ids
// cannot be edited through the plan routes.
func TestPlanEditingOnlyPlans(t *testing.T) {
	s, store := newTestServer(t)
	done := completedBench("11111111-1111-1111-1111-111111111111", testNow, 100)
	store.add(done)

	if rec := do(t, s, http.MethodPost, "/api/v1/plans/"+done.ID+"/exercises", map[string]string{"name": "Fly"}, nil); rec.Code != http.StatusConflict {
		t.Errorf("edit completed status = %d, want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/plans/44444444-4444-4444-4444-444444444444/exercises", map[string]string{"name": "Fly"}, nil); rec.Code != http.StatusNotFound {
		t.Errorf("edit unknown status = %d, want 404", rec.Code)
	}
	plan := savedPlan(t, s)
	if rec := do(t, s, http.MethodPost, "/api/v1/plans/"+plan.ID+"/exercises", map[string]string{}, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", rec.Code)
	}
}

// TestApplySuggestionToPlan verifies a suggestion computed from history
// replaces the plan exercise's sets with planned targets.
func TestApplySuggestionToPlan(t *testing.T) {
	s, store := newTestServer(t)
	store.add(
		completedBench("11111111-1111-1111-1111-111111111111", testNow.AddDate(0, 0, -7), 100),
		completedBench("22222222-2222-2222-2222-222222222222", testNow.AddDate(0, 0, -3), 110),
	)
	plan := savedPlan(t, s)
	bench := plan.Exercises[2].ID
	path := "/api/v1/plans/" + plan.ID + "/exercises/" + bench + "/apply-suggestion"

	var got models.Workout
	if rec := do(t, s, http.MethodPost, path+"?type=weight", nil, &got); rec.Code != http.StatusOK {
		t.Fatalf("apply status = %d: %s", rec.Code, rec.Body)
	}
	sets := got.Exercise(bench).Sets
	if len(sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(sets))
	}
	for i, set := range sets {
		if w, r := set.Weight.Planned.Float(), set.Reps.Planned.Int(); w != 112.5 || r != 10 {
			t.Errorf("set %d = %v x %d, want 112.5 x 10", i, w, r)
		}
	}

	squat := plan.Exercises[0].ID
	if rec := do(t, s, http.MethodPost, "/api/v1/plans/"+plan.ID+"/exercises/"+squat+"/apply-suggestion", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("no history status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, path+"?type=distance", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unmatched type status = %d, want 404", rec.Code)
	}
}
