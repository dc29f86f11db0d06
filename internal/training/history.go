package training

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// DefaultHistoryLimit is how many past sessions are returned when no limit is given.
const DefaultHistoryLimit = 4

// HistoryEntry is one past performance of an exercise.
type HistoryEntry struct {
	WorkoutID string          `json:"workout_id"`
	Date      time.Time       `json:"date"`
	Exercise  models.Exercise `json:"exercise"`
	Sets      []models.Set    `json:"sets"`
	IsCardio  bool            `json:"is_cardio"`
	Category  string          `json:"category"`
}

// History returns up to limit past performances of the named exercise,
// taken from completed workouts in the order given. Callers pass workouts
// newest first, so the result is newest first as well.
func History(workouts []models.Workout, name string, limit int) []HistoryEntry {
	if name == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var entries []HistoryEntry
	for _, w := range workouts {
		if len(entries) == limit {
			break
		}
		if w.Status != models.StatusCompleted {
			continue
		}
		for _, ex := range w.Exercises {
			if ex.Name != name {
				continue
			}
			entries = append(entries, newEntry(w, ex))
			break
		}
	}
	return entries
}

func newEntry(w models.Workout, ex models.Exercise) HistoryEntry {
	date := w.Date
	if date.IsZero() {
		date = w.CreatedAt
	}
	sets := ex.Sets
	if sets == nil {
		sets = []models.Set{}
	}
	return HistoryEntry{
		WorkoutID: w.ID,
		Date:      date,
		Exercise:  ex,
		Sets:      sets,
		IsCardio:  ex.IsCardio(),
		Category:  ex.Category,
	}
}
