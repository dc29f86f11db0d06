package models

import (
	"slices"
	"time"
)

// Exercise categories.
const (
	CategoryCompound    = "compound"
	CategoryIsolation   = "isolation"
	CategoryBodyweight  = "bodyweight"
	CategoryCardio      = "cardio"
	CategoryFlexibility = "flexibility"
	CategoryCustom      = "custom"
)

// FocusCardio marks an exercise as cardio regardless of its category.
const FocusCardio = "Cardio"

// Workout types.
const (
	TypeHypertrophy = "hypertrophy"
	TypePower       = "power"
	TypeStrength    = "strength"
	TypeEndurance   = "endurance"
)

// Workout lifecycle statuses.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusStarted   = "started"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// DefaultRounds is used when a superset is created without a round count.
const DefaultRounds = 3

// Set is one performance unit within an exercise. Strength sets use Weight
// and Reps, cardio sets use Distance and Duration.
type Set struct {
	Weight        Measure `json:"weight,omitzero"`
	Reps          Measure `json:"reps,omitzero"`
	Distance      Measure `json:"distance,omitzero"`
	Duration      Measure `json:"duration,omitzero"`
	FloorsClimbed Amount  `json:"floors_climbed,omitzero"`
	WeightedVest  Amount  `json:"weighted_vest,omitzero"`
	Completed     bool    `json:"completed"`
}

// EffectiveWeight is the logged weight, else the planned one, else bodyweight.
func (s Set) EffectiveWeight() Amount {
	return s.Weight.Effective().Or(Bodyweight())
}

// EffectiveReps is the logged reps, else the planned reps, else 0.
func (s Set) EffectiveReps() int {
	return s.Reps.Effective().Int()
}

func (s Set) EffectiveDistance() float64 {
	return s.Distance.Effective().Float()
}

func (s Set) EffectiveDuration() float64 {
	return s.Duration.Effective().Float()
}

// Exercise is one exercise instance inside a workout.
type Exercise struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	FocusAreas []string `json:"focus_areas,omitempty"`
	SupersetID string   `json:"superset_id,omitempty"`
	Sets       []Set    `json:"sets"`
	Notes      string   `json:"notes,omitempty"`
}

// IsCardio reports whether volume comparisons should ignore this exercise.
func (e Exercise) IsCardio() bool {
	return e.Category == CategoryCardio || slices.Contains(e.FocusAreas, FocusCardio)
}

// DefaultSetCount is the number of empty sets a new exercise starts with.
func DefaultSetCount(category string, focusAreas []string) int {
	if (Exercise{Category: category, FocusAreas: focusAreas}).IsCardio() {
		return 1
	}
	return 3
}

// Superset groups exercises performed back-to-back for a number of rounds.
// ExerciseIDs order is the traversal order within a round.
type Superset struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercise_ids"`
	Rounds      int      `json:"rounds"`
}

// Position returns the index of exerciseID within the superset, or -1.
func (s Superset) Position(exerciseID string) int {
	return slices.Index(s.ExerciseIDs, exerciseID)
}

// Workout is a plan, a live session, or a completed record. It owns its
// exercises and supersets; supersets refer to exercises by id only.
type Workout struct {
	ID         string     `json:"id"`
	UserID     int        `json:"user_id,omitempty"`
	Date       time.Time  `json:"date"`
	Type       string     `json:"type"`
	FocusArea  string     `json:"focus_area"`
	Motivation int        `json:"motivation"`
	Notes      string     `json:"notes,omitempty"`
	Exercises  []Exercise `json:"exercises"`
	Supersets  []Superset `json:"supersets,omitempty"`
	Status     string     `json:"status"`

	CreatedAt time.Time  `json:"created_at,omitzero"`
	StartedAt *time.Time `json:"started_at,omitempty"`

	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    int        `json:"duration,omitempty"`
	Rating      int        `json:"rating,omitempty"`
	TotalWeight float64    `json:"total_weight,omitempty"`
}

// NewPlan returns an empty draft with the planner's defaults.
func NewPlan(date time.Time) *Workout {
	return &Workout{
		ID:         NewID(),
		Date:       date,
		Type:       TypeHypertrophy,
		FocusArea:  "pull",
		Motivation: 7,
		Status:     StatusDraft,
	}
}

// ExerciseIndex returns the position of the exercise with the given id, or -1.
func (w *Workout) ExerciseIndex(id string) int {
	return slices.IndexFunc(w.Exercises, func(e Exercise) bool { return e.ID == id })
}

// Exercise returns a pointer into the workout's exercise list, or nil.
func (w *Workout) Exercise(id string) *Exercise {
	if i := w.ExerciseIndex(id); i >= 0 {
		return &w.Exercises[i]
	}
	return nil
}

// Superset returns a pointer into the workout's superset list, or nil.
func (w *Workout) Superset(id string) *Superset {
	if id == "" {
		return nil
	}
	for i := range w.Supersets {
		if w.Supersets[i].ID == id {
			return &w.Supersets[i]
		}
	}
	return nil
}

// SupersetOf returns the superset containing the exercise at index i, or nil.
func (w *Workout) SupersetOf(i int) *Superset {
	if i < 0 || i >= len(w.Exercises) {
		return nil
	}
	id := w.Exercises[i].ID
	for j := range w.Supersets {
		if w.Supersets[j].Position(id) >= 0 {
			return &w.Supersets[j]
		}
	}
	return nil
}
