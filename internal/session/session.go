// Package session holds the state of a workout while it is being performed:
// the workout document and the sequencer position, persisted per user so a
// live workout survives a restart.
package session

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/training"
)

// DefaultRating is applied when a workout is finished without a rating.
const DefaultRating = 8

var (
	ErrNoSession     = errors.New("no workout in progress")
	ErrSessionActive = errors.New("a workout is already in progress")
	ErrSetNotActive  = errors.New("set is not open for logging")
	ErrSetListFixed  = errors.New("superset exercises have one set per round")
	ErrLastSet       = errors.New("an exercise keeps at least one set")
	ErrSetNotFound   = errors.New("set not found")
)

// Session is one user's live workout.
type Session struct {
	UserID    int                `json:"user_id"`
	Workout   models.Workout     `json:"workout"`
	State     training.Sequencer `json:"state"`
	StartedAt time.Time          `json:"started_at"`
}

// SetInput is what the set form submits. Absent fields clear the logged value
// so the set falls back to its plan.
type SetInput struct {
	Weight        models.Amount `json:"weight"`
	Reps          models.Amount `json:"reps"`
	Distance      models.Amount `json:"distance"`
	Duration      models.Amount `json:"duration"`
	FloorsClimbed models.Amount `json:"floors_climbed"`
	WeightedVest  models.Amount `json:"weighted_vest"`
	Completed     bool          `json:"completed"`
}

// New starts a session for w at now. The workout becomes active, its
// supersets are gathered into blocks and the sequencer is placed on the
// first exercise, round 1.
func New(userID int, w models.Workout, now time.Time) *Session {
	w.Exercises = slices.Clone(w.Exercises)
	w.NormalizeSupersets()
	w.UserID = userID
	w.Status = models.StatusActive
	start := now
	w.StartTime = &start
	if w.ID == "" {
		w.ID = models.NewID()
	}
	return &Session{
		UserID:    userID,
		Workout:   w,
		State:     training.StartSequencer(&w),
		StartedAt: now,
	}
}

// Current returns the exercise being performed, or nil once complete.
func (s *Session) Current() *models.Exercise {
	return s.State.Current(&s.Workout)
}

// Advance moves the sequencer on after the current step.
func (s *Session) Advance() {
	s.State = s.State.Advance(&s.Workout)
}

// Navigate jumps to the exercise at index i.
func (s *Session) Navigate(i int) error {
	next, err := s.State.Navigate(&s.Workout, i)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

// LogSet records input on set n of the exercise. Only sets the sequencer has
// open may be logged.
func (s *Session) LogSet(exerciseID string, n int, in SetInput) error {
	i := s.Workout.ExerciseIndex(exerciseID)
	if i < 0 {
		return fmt.Errorf("logging set: %s: %w", exerciseID, models.ErrExerciseNotFound)
	}
	if i != s.State.Index || s.State.Complete {
		return fmt.Errorf("logging set on %s: %w", exerciseID, ErrSetNotActive)
	}
	if !slices.Contains(s.State.ActiveSets(&s.Workout), n) {
		return fmt.Errorf("logging set %d on %s: %w", n, exerciseID, ErrSetNotActive)
	}

	set := &s.Workout.Exercises[i].Sets[n]
	set.Weight.Actual = in.Weight
	set.Reps.Actual = in.Reps
	set.Distance.Actual = in.Distance
	set.Duration.Actual = in.Duration
	set.FloorsClimbed = in.FloorsClimbed
	set.WeightedVest = in.WeightedVest
	set.Completed = in.Completed
	return nil
}

// AddSet appends a set to an exercise outside a superset, copying the plan of
// the previous set. It returns the new set's index.
func (s *Session) AddSet(exerciseID string) (int, error) {
	ex, err := s.editableExercise(exerciseID)
	if err != nil {
		return 0, err
	}
	var next models.Set
	if n := len(ex.Sets); n > 0 {
		prev := ex.Sets[n-1]
		next = models.Set{
			Weight:   models.Planned(prev.Weight.Planned),
			Reps:     models.Planned(prev.Reps.Planned),
			Distance: models.Planned(prev.Distance.Planned),
			Duration: models.Planned(prev.Duration.Planned),
		}
	}
	ex.Sets = append(ex.Sets, next)
	return len(ex.Sets) - 1, nil
}

// RemoveSet deletes set n of an exercise outside a superset.
func (s *Session) RemoveSet(exerciseID string, n int) error {
	ex, err := s.editableExercise(exerciseID)
	if err != nil {
		return err
	}
	if n < 0 || n >= len(ex.Sets) {
		return fmt.Errorf("removing set %d of %d: %w", n, len(ex.Sets), ErrSetNotFound)
	}
	if len(ex.Sets) == 1 {
		return ErrLastSet
	}
	ex.Sets = slices.Delete(ex.Sets, n, n+1)
	return nil
}

func (s *Session) editableExercise(exerciseID string) (*models.Exercise, error) {
	ex := s.Workout.Exercise(exerciseID)
	if ex == nil {
		return nil, fmt.Errorf("editing sets: %s: %w", exerciseID, models.ErrExerciseNotFound)
	}
	if ex.SupersetID != "" {
		return nil, ErrSetListFixed
	}
	return ex, nil
}

// Finish closes the workout at now and returns the completed record. A
// rating of 0 means none was given.
func (s *Session) Finish(now time.Time, rating int, notes string) models.Workout {
	w := s.Workout
	end := now
	w.EndTime = &end

	start := s.StartedAt
	if w.StartTime != nil {
		start = *w.StartTime
	}
	w.Duration = max(int(math.Round(now.Sub(start).Minutes())), 0)

	if rating == 0 {
		rating = DefaultRating
	}
	w.Rating = min(max(rating, 1), 10)
	if notes != "" {
		w.Notes = notes
	}
	if w.Date.IsZero() {
		w.Date = start
	}
	w.TotalWeight = training.TotalWeight(w.Exercises)
	w.Status = models.StatusCompleted
	return w
}
