package training

import (
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// ErrOutOfRange is returned when navigating to an exercise that does not exist.
var ErrOutOfRange = errors.New("exercise index out of range")

// Sequencer is the position of a live workout: which exercise is current
// and, inside a superset, which round. Round is 1-based and only meaningful
// while the current exercise belongs to a superset.
type Sequencer struct {
	Index    int  `json:"index"`
	Round    int  `json:"round"`
	Complete bool `json:"complete"`
}

// NewSequencer returns the starting position: first exercise, round 1.
func NewSequencer() Sequencer {
	return Sequencer{Index: 0, Round: 1}
}

// StartSequencer returns the starting position for w. A workout without
// exercises is complete from the outset.
func StartSequencer(w *models.Workout) Sequencer {
	s := NewSequencer()
	if len(w.Exercises) == 0 {
		s.Complete = true
	}
	return s
}

// Advance moves to the next step after the current one is done.
//
// Outside a superset it moves to the next exercise. Inside a superset it
// walks the members in order, repeats from the first member until all
// rounds are done, then continues with the first exercise after the
// superset's block. Past the last exercise the sequencer is Complete.
func (s Sequencer) Advance(w *models.Workout) Sequencer {
	if s.Complete {
		return s
	}

	ss := w.SupersetOf(s.Index)
	if ss == nil {
		if s.Index+1 < len(w.Exercises) {
			return Sequencer{Index: s.Index + 1, Round: 1}
		}
		return Sequencer{Index: s.Index, Round: 1, Complete: true}
	}

	pos := ss.Position(w.Exercises[s.Index].ID)
	if pos < len(ss.ExerciseIDs)-1 {
		return Sequencer{Index: w.ExerciseIndex(ss.ExerciseIDs[pos+1]), Round: s.Round}
	}
	if s.Round < ss.Rounds {
		return Sequencer{Index: w.ExerciseIndex(ss.ExerciseIDs[0]), Round: s.Round + 1}
	}

	if next := firstAfterBlock(w, ss); next >= 0 {
		return Sequencer{Index: next, Round: 1}
	}
	return Sequencer{Index: s.Index, Round: 1, Complete: true}
}

// firstAfterBlock returns the index of the first non-member exercise after
// the last member of ss, or -1.
func firstAfterBlock(w *models.Workout, ss *models.Superset) int {
	last := -1
	for _, id := range ss.ExerciseIDs {
		last = max(last, w.ExerciseIndex(id))
	}
	for j := last + 1; j < len(w.Exercises); j++ {
		if ss.Position(w.Exercises[j].ID) < 0 {
			return j
		}
	}
	return -1
}

// Navigate jumps to the exercise at target. The round is kept when target
// is in the same superset as the current exercise and reset to 1 otherwise.
func (s Sequencer) Navigate(w *models.Workout, target int) (Sequencer, error) {
	if target < 0 || target >= len(w.Exercises) {
		return s, fmt.Errorf("navigating to %d of %d: %w", target, len(w.Exercises), ErrOutOfRange)
	}
	round := 1
	from, to := w.SupersetOf(s.Index), w.SupersetOf(target)
	if from != nil && to != nil && from.ID == to.ID && s.Round > 0 {
		round = s.Round
	}
	return Sequencer{Index: target, Round: round}, nil
}

// Current returns the current exercise, or nil when complete.
func (s Sequencer) Current(w *models.Workout) *models.Exercise {
	if s.Complete || s.Index < 0 || s.Index >= len(w.Exercises) {
		return nil
	}
	return &w.Exercises[s.Index]
}

// CurrentRound is the round of the current superset, or 0 outside one.
func (s Sequencer) CurrentRound(w *models.Workout) int {
	if s.Complete || w.SupersetOf(s.Index) == nil {
		return 0
	}
	return s.Round
}

// ActiveSets returns the indices of the current exercise's sets open for
// logging. Inside a superset only the slot for the current round is open.
func (s Sequencer) ActiveSets(w *models.Workout) []int {
	ex := s.Current(w)
	if ex == nil {
		return nil
	}
	if w.SupersetOf(s.Index) != nil {
		if i := s.Round - 1; i >= 0 && i < len(ex.Sets) {
			return []int{i}
		}
		return nil
	}
	idx := make([]int, len(ex.Sets))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// CanEditSetList reports whether sets may be appended or removed on the
// current exercise. Superset sets are fixed at one slot per round.
func (s Sequencer) CanEditSetList(w *models.Workout) bool {
	return s.Current(w) != nil && w.SupersetOf(s.Index) == nil
}
