package training

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// set builds a strength set with planned and actual values; 0 means not entered.
func set(weight float64, reps, plannedReps int) models.Set {
	s := models.Set{Weight: models.Planned(models.Num(weight)), Completed: true}
	if plannedReps > 0 {
		s.Reps.Planned = models.Num(float64(plannedReps))
	}
	if reps > 0 {
		s.Reps.Actual = models.Num(float64(reps))
	}
	return s
}

func repeatSet(s models.Set, n int) []models.Set {
	sets := make([]models.Set, n)
	for i := range sets {
		sets[i] = s
	}
	return sets
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 18, 0, 0, 0, time.UTC)
}

// completed wraps exercises into a completed workout on the given day.
func completed(id string, d int, exercises ...models.Exercise) models.Workout {
	return models.Workout{
		ID:        id,
		Date:      day(d),
		Status:    models.StatusCompleted,
		Exercises: exercises,
	}
}

func exercise(name, category string, sets ...models.Set) models.Exercise {
	return models.Exercise{ID: name + "-id", Name: name, Category: category, Sets: sets}
}
