package training

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

// supersetPlan builds [before...] + superset(a, b) + [after...] and returns
// the workout with the superset members' ids.
func supersetPlan(t *testing.T, rounds int, before, after []string) (*models.Workout, string, string) {
	t.Helper()
	w := models.NewPlan(time.Now())
	for _, name := range before {
		w.AddExercise(name, models.CategoryCompound, nil)
	}
	a := w.AddExercise("Squat", models.CategoryCompound, nil)
	b := w.AddExercise("Lunge", models.CategoryCompound, nil)
	for _, name := range after {
		w.AddExercise(name, models.CategoryIsolation, nil)
	}
	if _, err := w.CreateSuperset("Legs", []string{a, b}, rounds); err != nil {
		t.Fatal(err)
	}
	return w, a, b
}

type step struct {
	name  string
	round int
}

// walk advances from the start until complete and records each position.
func walk(t *testing.T, w *models.Workout) []step {
	t.Helper()
	s := StartSequencer(w)
	var steps []step
	for i := 0; !s.Complete; i++ {
		if i > 100 {
			t.Fatal("sequencer did not complete")
		}
		steps = append(steps, step{s.Current(w).Name, s.CurrentRound(w)})
		s = s.Advance(w)
	}
	return steps
}

// TestAdvanceSupersetRounds verifies members alternate within a round and the
// workout continues after the superset once all rounds are done.
func TestAdvanceSupersetRounds(t *testing.T) {
	w, _, _ := supersetPlan(t, 2, nil, []string{"Curl"})
	want := []step{
		{"Squat", 1}, {"Lunge", 1},
		{"Squat", 2}, {"Lunge", 2},
		{"Curl", 0},
	}
	if diff := cmp.Diff(want, walk(t, w), cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

// TestAdvanceCompletesOnLastRound verifies a two-member, three-round
// superset that ends the workout completes on the sixth advance and not before.
func TestAdvanceCompletesOnLastRound(t *testing.T) {
	w, _, _ := supersetPlan(t, 3, nil, nil)
	s := StartSequencer(w)
	for i := 1; i <= 6; i++ {
		s = s.Advance(w)
		if i < 6 && s.Complete {
			t.Fatalf("complete after %d advances, want 6", i)
		}
	}
	if !s.Complete {
		t.Errorf("not complete after 6 advances: %+v", s)
	}
	if s.Current(w) != nil {
		t.Error("Current should be nil once complete")
	}
}

// TestAdvancePlainWorkout verifies exercises outside supersets are visited once each.
func TestAdvancePlainWorkout(t *testing.T) {
	w := models.NewPlan(time.Now())
	w.AddExercise("Bench", models.CategoryCompound, nil)
	w.AddExercise("Fly", models.CategoryIsolation, nil)
	want := []step{{"Bench", 0}, {"Fly", 0}}
	if diff := cmp.Diff(want, walk(t, w), cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

// TestStartSequencerEmpty verifies a workout with no exercises starts complete.
func TestStartSequencerEmpty(t *testing.T) {
	if s := StartSequencer(models.NewPlan(time.Now())); !s.Complete {
		t.Error("empty workout should start complete")
	}
}

// TestAdvanceAfterComplete verifies advancing a complete sequencer is a no-op.
func TestAdvanceAfterComplete(t *testing.T) {
	w := models.NewPlan(time.Now())
	w.AddExercise("Bench", models.CategoryCompound, nil)
	s := StartSequencer(w).Advance(w)
	if got := s.Advance(w); got != s {
		t.Errorf("Advance on complete = %+v, want %+v", got, s)
	}
}

// TestNavigateKeepsRoundWithinSuperset verifies the round survives a jump
// between members of the same superset and resets otherwise.
func TestNavigateKeepsRoundWithinSuperset(t *testing.T) {
	w, _, _ := supersetPlan(t, 3, []string{"Row"}, []string{"Curl"})
	s := Sequencer{Index: 1, Round: 2}

	got, err := s.Navigate(w, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Round != 2 {
		t.Errorf("same superset: round = %d, want 2", got.Round)
	}

	got, err = s.Navigate(w, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Round != 1 || got.Index != 3 {
		t.Errorf("outside superset: %+v, want index 3 round 1", got)
	}

	if _, err := s.Navigate(w, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}

// TestActiveSets verifies only the current round's slot is open inside a
// superset while every set is open elsewhere.
func TestActiveSets(t *testing.T) {
	w, _, _ := supersetPlan(t, 3, nil, []string{"Curl"})

	inSuperset := Sequencer{Index: 1, Round: 3}
	if diff := cmp.Diff([]int{2}, inSuperset.ActiveSets(w)); diff != "" {
		t.Errorf("superset active sets mismatch (-want +got):\n%s", diff)
	}
	if inSuperset.CanEditSetList(w) {
		t.Error("superset set list should be fixed")
	}

	plain := Sequencer{Index: 2, Round: 1}
	if diff := cmp.Diff([]int{0, 1, 2}, plain.ActiveSets(w)); diff != "" {
		t.Errorf("plain active sets mismatch (-want +got):\n%s", diff)
	}
	if !plain.CanEditSetList(w) {
		t.Error("plain exercise set list should be editable")
	}
}

// TestAdvanceVisitsExerciseBetweenMembers verifies an exercise that sat
// between superset members is still performed once the plan is normalized.
func TestAdvanceVisitsExerciseBetweenMembers(t *testing.T) {
	w := &models.Workout{
		Exercises: []models.Exercise{
			{ID: "a", Name: "Squat", SupersetID: "ss", Sets: make([]models.Set, 1)},
			{ID: "x", Name: "Curl", Sets: make([]models.Set, 1)},
			{ID: "b", Name: "Lunge", SupersetID: "ss", Sets: make([]models.Set, 1)},
		},
		Supersets: []models.Superset{{ID: "ss", ExerciseIDs: []string{"a", "b"}, Rounds: 2}},
	}
	w.NormalizeSupersets()
	want := []step{
		{"Squat", 1}, {"Lunge", 1},
		{"Squat", 2}, {"Lunge", 2},
		{"Curl", 0},
	}
	if diff := cmp.Diff(want, walk(t, w), cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	late := Sequencer{Index: 0, Round: 2}
	if diff := cmp.Diff([]int{1}, late.ActiveSets(w)); diff != "" {
		t.Errorf("round 2 active sets mismatch (-want +got):\n%s", diff)
	}
}

// TestNavigateIntoOtherSupersetResetsRound verifies jumping from one
// superset into a different one starts the new superset at round 1.
func TestNavigateIntoOtherSupersetResetsRound(t *testing.T) {
	w, _, _ := supersetPlan(t, 3, nil, nil)
	c := w.AddExercise("Press", models.CategoryCompound, nil)
	d := w.AddExercise("Row", models.CategoryCompound, nil)
	if _, err := w.CreateSuperset("Upper", []string{c, d}, 3); err != nil {
		t.Fatal(err)
	}

	s := Sequencer{Index: 1, Round: 3}
	got, err := s.Navigate(w, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Index != 2 || got.Round != 1 {
		t.Errorf("Navigate = %+v, want index 2 round 1", got)
	}
}
