package training

import (
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

// TestHistoryFiltersAndLimits verifies only completed workouts with an exact
// name match are returned, in input order, up to the limit.
func TestHistoryFiltersAndLimits(t *testing.T) {
	draft := completed("draft", 9, exercise("Squat", models.CategoryCompound, set(120, 5, 5)))
	draft.Status = models.StatusScheduled
	workouts := []models.Workout{
		draft,
		completed("w4", 8, exercise("Squat", models.CategoryCompound, set(110, 5, 5))),
		completed("w3", 6, exercise("Front Squat", models.CategoryCompound, set(80, 5, 5))),
		completed("w2", 4, exercise("squat", models.CategoryCompound, set(90, 5, 5))),
		completed("w1", 2, exercise("Squat", models.CategoryCompound, set(100, 5, 5))),
		completed("w0", 1, exercise("Squat", models.CategoryCompound, set(95, 5, 5))),
	}

	got := History(workouts, "Squat", 2)
	var ids []string
	for _, e := range got {
		ids = append(ids, e.WorkoutID)
	}
	if diff := cmp.Diff([]string{"w4", "w1"}, ids); diff != "" {
		t.Errorf("workout ids mismatch (-want +got):\n%s", diff)
	}
	if got[0].Category != models.CategoryCompound || got[0].IsCardio {
		t.Errorf("entry projection = %+v", got[0])
	}
	if !got[0].Date.Equal(day(8)) {
		t.Errorf("date = %v, want %v", got[0].Date, day(8))
	}
}

// TestHistoryDefaultLimit verifies a zero limit falls back to 4 entries.
func TestHistoryDefaultLimit(t *testing.T) {
	var workouts []models.Workout
	for i := 10; i > 0; i-- {
		workouts = append(workouts, completed("w", i, exercise("Curl", models.CategoryIsolation, set(20, 10, 10))))
	}
	if got := len(History(workouts, "Curl", 0)); got != DefaultHistoryLimit {
		t.Errorf("len = %d, want %d", got, DefaultHistoryLimit)
	}
}

// TestHistoryNoMatch verifies an unknown exercise yields an empty result.
func TestHistoryNoMatch(t *testing.T) {
	workouts := []models.Workout{completed("w1", 1, exercise("Curl", models.CategoryIsolation))}
	if got := History(workouts, "Deadlift", 4); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if got := History(workouts, "", 4); len(got) != 0 {
		t.Errorf("empty name: len = %d, want 0", len(got))
	}
}

// TestHistoryDateFallsBackToCreated verifies entries without a workout date
// use the creation time instead.
func TestHistoryDateFallsBackToCreated(t *testing.T) {
	w := completed("w1", 1, exercise("Curl", models.CategoryIsolation))
	w.Date = time.Time{}
	w.CreatedAt = day(3)

	got := History([]models.Workout{w}, "Curl", 1)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !got[0].Date.Equal(day(3)) {
		t.Errorf("date = %v, want %v", got[0].Date, day(3))
	}
	if got[0].Sets == nil {
		t.Error("sets should be an empty slice, not nil")
	}
}
