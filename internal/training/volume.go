package training

import "github.com/claude/liftlog/internal/models"

// TotalWeight sums weight × reps over every set of every non-cardio exercise.
// Unparseable or missing values count as 0.
func TotalWeight(exercises []models.Exercise) float64 {
	var total float64
	for _, ex := range exercises {
		if ex.IsCardio() {
			continue
		}
		for _, s := range ex.Sets {
			total += s.EffectiveWeight().Float() * float64(s.EffectiveReps())
		}
	}
	return total
}

// ExerciseVolume is the comparison volume of one history entry. Sets done at
// bodyweight (weight 0 or "BW") contribute their reps alone. Cardio is always 0.
func ExerciseVolume(entry HistoryEntry) float64 {
	if entry.IsCardio || entry.Category == models.CategoryCardio {
		return 0
	}
	return setsVolume(entry.Sets)
}

func setsVolume(sets []models.Set) float64 {
	var total float64
	for _, s := range sets {
		weight := s.EffectiveWeight()
		reps := float64(s.EffectiveReps())
		if weight.IsBodyweight() || weight.Float() == 0 {
			total += reps
			continue
		}
		total += weight.Float() * reps
	}
	return total
}
