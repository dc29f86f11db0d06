package training

import (
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// FormatSets renders sets as a compact one-line summary, e.g. "100×10, 100×8"
// or "30min × 3.1mi" for cardio.
func FormatSets(sets []models.Set, isCardio bool) string {
	if len(sets) == 0 {
		return "No sets recorded"
	}
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		if isCardio {
			parts = append(parts, fmt.Sprintf("%smin × %smi",
				orZero(s.Duration.Effective()), orZero(s.Distance.Effective())))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s×%s",
			orZero(s.Weight.Effective()), orZero(s.Reps.Effective())))
	}
	return strings.Join(parts, ", ")
}

func orZero(a models.Amount) string {
	if !a.Present() {
		return "0"
	}
	return a.String()
}

// FormattedEntry is a history entry prepared for display.
type FormattedEntry struct {
	Date       time.Time    `json:"date"`
	DateString string       `json:"date_string"`
	Sets       string       `json:"sets"`
	Volume     float64      `json:"volume"`
	IsCardio   bool         `json:"is_cardio"`
	RawSets    []models.Set `json:"raw_sets"`
}

// FormattedHistory is History with each entry rendered for display.
func FormattedHistory(workouts []models.Workout, name string, limit int) []FormattedEntry {
	history := History(workouts, name, limit)
	out := make([]FormattedEntry, 0, len(history))
	for _, h := range history {
		dateString := "Unknown date"
		if !h.Date.IsZero() {
			dateString = h.Date.Format("1/2/2006")
		}
		out = append(out, FormattedEntry{
			Date:       h.Date,
			DateString: dateString,
			Sets:       FormatSets(h.Sets, h.IsCardio),
			Volume:     ExerciseVolume(h),
			IsCardio:   h.IsCardio,
			RawSets:    h.Sets,
		})
	}
	return out
}
