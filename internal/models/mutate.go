package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrSupersetTooSmall  = errors.New("a superset needs at least 2 exercises")
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrSupersetNotFound  = errors.New("superset not found")
	ErrAlreadyInSuperset = errors.New("exercise already belongs to a superset")
	ErrSupersetSplit     = errors.New("superset members are not next to each other")
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// AddExercise appends a new exercise with the default number of empty sets
// and returns its id.
func (w *Workout) AddExercise(name, category string, focusAreas []string) string {
	category = NormalizeCategory(category)
	ex := Exercise{
		ID:         NewID(),
		Name:       name,
		Category:   category,
		FocusAreas: focusAreas,
		Sets:       make([]Set, DefaultSetCount(category, focusAreas)),
	}
	w.Exercises = append(w.Exercises, ex)
	return ex.ID
}

// RemoveExercise deletes an exercise, detaching it from its superset first.
func (w *Workout) RemoveExercise(id string) error {
	i := w.ExerciseIndex(id)
	if i < 0 {
		return fmt.Errorf("removing %s: %w", id, ErrExerciseNotFound)
	}
	if w.Exercises[i].SupersetID != "" {
		if err := w.RemoveFromSuperset(id); err != nil {
			return err
		}
	}
	w.Exercises = slices.Delete(w.Exercises, i, i+1)
	return nil
}

// CreateSuperset groups the given exercises, in order, into a new superset.
// Every member is given one set slot per round. Returns the new superset id.
func (w *Workout) CreateSuperset(name string, exerciseIDs []string, rounds int) (string, error) {
	ids := slices.Clone(exerciseIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) < 2 {
		return "", ErrSupersetTooSmall
	}
	if len(ids) != len(exerciseIDs) {
		return "", fmt.Errorf("creating superset: duplicate exercise ids: %w", ErrAlreadyInSuperset)
	}
	for _, id := range exerciseIDs {
		ex := w.Exercise(id)
		if ex == nil {
			return "", fmt.Errorf("creating superset: %s: %w", id, ErrExerciseNotFound)
		}
		if ex.SupersetID != "" {
			return "", fmt.Errorf("creating superset: %s: %w", id, ErrAlreadyInSuperset)
		}
	}
	if rounds < 1 {
		rounds = DefaultRounds
	}

	ss := Superset{
		ID:          NewID(),
		Name:        name,
		ExerciseIDs: slices.Clone(exerciseIDs),
		Rounds:      rounds,
	}
	for _, id := range exerciseIDs {
		ex := w.Exercise(id)
		ex.SupersetID = ss.ID
		for len(ex.Sets) < rounds {
			ex.Sets = append(ex.Sets, Set{})
		}
	}
	w.Supersets = append(w.Supersets, ss)
	w.gather(ss)
	return ss.ID, nil
}

// gather moves the members of ss next to each other, in superset order,
// starting where the earliest member sits. The sequencer relies on a
// superset occupying one contiguous block of the exercise list.
func (w *Workout) gather(ss Superset) {
	at := len(w.Exercises)
	members := make([]Exercise, 0, len(ss.ExerciseIDs))
	for _, id := range ss.ExerciseIDs {
		i := w.ExerciseIndex(id)
		at = min(at, i)
		members = append(members, w.Exercises[i])
	}
	rest := slices.DeleteFunc(slices.Clone(w.Exercises), func(e Exercise) bool { return ss.Position(e.ID) >= 0 })
	// No member sits before at, so rest[:at] is the untouched prefix.
	w.Exercises = slices.Concat(rest[:at], members, rest[at:])
}

// NormalizeSupersets gathers every superset into one block and pads each
// member to one set per round. Supersets whose members cannot be resolved
// are left alone for Validate to report.
func (w *Workout) NormalizeSupersets() {
	for _, ss := range w.Supersets {
		if ss.Rounds < 1 || !w.resolvable(ss) {
			continue
		}
		for _, id := range ss.ExerciseIDs {
			ex := w.Exercise(id)
			for len(ex.Sets) < ss.Rounds {
				ex.Sets = append(ex.Sets, Set{})
			}
		}
		w.gather(ss)
	}
}

// resolvable reports whether every member of ss exists exactly once and is
// claimed by no other superset.
func (w *Workout) resolvable(ss Superset) bool {
	seen := make(map[string]bool, len(ss.ExerciseIDs))
	for _, id := range ss.ExerciseIDs {
		if seen[id] || w.Exercise(id) == nil {
			return false
		}
		seen[id] = true
		for _, other := range w.Supersets {
			if other.ID != ss.ID && other.Position(id) >= 0 {
				return false
			}
		}
	}
	return true
}

// DeleteSuperset removes the superset and clears the link on all members.
func (w *Workout) DeleteSuperset(id string) error {
	i := slices.IndexFunc(w.Supersets, func(s Superset) bool { return s.ID == id })
	if i < 0 {
		return fmt.Errorf("deleting %s: %w", id, ErrSupersetNotFound)
	}
	for _, exID := range w.Supersets[i].ExerciseIDs {
		if ex := w.Exercise(exID); ex != nil && ex.SupersetID == id {
			ex.SupersetID = ""
		}
	}
	w.Supersets = slices.Delete(w.Supersets, i, i+1)
	return nil
}

// RemoveFromSuperset takes one exercise out of its superset. A superset left
// with fewer than 2 members is deleted.
func (w *Workout) RemoveFromSuperset(exerciseID string) error {
	ex := w.Exercise(exerciseID)
	if ex == nil {
		return fmt.Errorf("detaching %s: %w", exerciseID, ErrExerciseNotFound)
	}
	ss := w.Superset(ex.SupersetID)
	ex.SupersetID = ""
	if ss == nil {
		return nil
	}

	ss.ExerciseIDs = slices.DeleteFunc(ss.ExerciseIDs, func(id string) bool { return id == exerciseID })
	if len(ss.ExerciseIDs) < 2 {
		return w.DeleteSuperset(ss.ID)
	}
	return nil
}

// Validate reports the first broken structural invariant, if any.
func (w *Workout) Validate() error {
	seen := make(map[string]bool, len(w.Exercises))
	for _, ex := range w.Exercises {
		if ex.ID == "" {
			return fmt.Errorf("exercise %q has no id", ex.Name)
		}
		if seen[ex.ID] {
			return fmt.Errorf("duplicate exercise id %s", ex.ID)
		}
		seen[ex.ID] = true
		if ex.SupersetID == "" {
			continue
		}
		ss := w.Superset(ex.SupersetID)
		if ss == nil {
			return fmt.Errorf("exercise %s: %w", ex.ID, ErrSupersetNotFound)
		}
		if ss.Position(ex.ID) < 0 {
			return fmt.Errorf("exercise %s is not listed in superset %s", ex.ID, ss.ID)
		}
	}
	for _, ss := range w.Supersets {
		if len(ss.ExerciseIDs) < 2 {
			return fmt.Errorf("superset %s: %w", ss.ID, ErrSupersetTooSmall)
		}
		if ss.Rounds < 1 {
			return fmt.Errorf("superset %s has %d rounds", ss.ID, ss.Rounds)
		}
		lo, hi := len(w.Exercises), -1
		for _, id := range ss.ExerciseIDs {
			ex := w.Exercise(id)
			if ex == nil {
				return fmt.Errorf("superset %s member %s: %w", ss.ID, id, ErrExerciseNotFound)
			}
			if ex.SupersetID != ss.ID {
				return fmt.Errorf("superset %s member %s points at %q", ss.ID, id, ex.SupersetID)
			}
			if len(ex.Sets) < ss.Rounds {
				return fmt.Errorf("superset %s member %s has %d sets for %d rounds", ss.ID, id, len(ex.Sets), ss.Rounds)
			}
			i := w.ExerciseIndex(id)
			lo, hi = min(lo, i), max(hi, i)
		}
		if hi-lo+1 != len(ss.ExerciseIDs) {
			return fmt.Errorf("superset %s: %w", ss.ID, ErrSupersetSplit)
		}
	}
	if w.Motivation != 0 && (w.Motivation < 1 || w.Motivation > 10) {
		return fmt.Errorf("motivation %d out of range 1-10", w.Motivation)
	}
	if w.Rating != 0 && (w.Rating < 1 || w.Rating > 10) {
		return fmt.Errorf("rating %d out of range 1-10", w.Rating)
	}
	return nil
}
