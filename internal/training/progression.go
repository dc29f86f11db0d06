package training

import (
	"fmt"
	"math"
	"strconv"

	"github.com/claude/liftlog/internal/models"
)

// SuggestionType names what a suggestion changes.
type SuggestionType string

const (
	SuggestWeight   SuggestionType = "weight"
	SuggestReps     SuggestionType = "reps"
	SuggestSets     SuggestionType = "sets"
	SuggestDistance SuggestionType = "distance"
	SuggestDuration SuggestionType = "duration"
)

const (
	maxSuggestions = 3
	maxSetCount    = 5

	// addedSetWeightFactor discounts the load of sets added by a set progression.
	addedSetWeightFactor = 0.95

	baseConfidence      = 60
	hitRepsBonus        = 20
	positiveTrendBonus  = 15
	minConfidence       = 30
	maxConfidence       = 95
	cardioDistanceStep  = 0.1
	cardioDurationStep  = 2
	cardioDistanceScore = 75
	cardioDurationScore = 80
)

// Result messages for sessions that cannot be built on.
const (
	MsgNoHistory   = "No previous data for this exercise yet"
	MsgNoValidSets = "Last session has no sets with both weight and reps logged"
)

// SetTarget is the planned load for one set of the next session.
type SetTarget struct {
	Weight   float64 `json:"weight,omitempty"`
	Reps     int     `json:"reps,omitempty"`
	Distance float64 `json:"distance,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Suggestion is one proposed target for the next session.
type Suggestion struct {
	Type       SuggestionType `json:"type"`
	Weight     float64        `json:"weight,omitempty"`
	Reps       int            `json:"reps,omitempty"`
	Sets       int            `json:"sets,omitempty"`
	Distance   float64        `json:"distance,omitempty"`
	Duration   float64        `json:"duration,omitempty"`
	Confidence int            `json:"confidence"`
	Rationale  string         `json:"rationale"`
	Targets    []SetTarget    `json:"targets"`
}

// LastPerformance summarizes the most recent session of the exercise.
type LastPerformance struct {
	Weight           float64 `json:"weight,omitempty"`
	AvgWeight        float64 `json:"avg_weight,omitempty"`
	Reps             int     `json:"reps,omitempty"`
	AvgReps          float64 `json:"avg_reps,omitempty"`
	Sets             int     `json:"sets"`
	AllRepsCompleted bool    `json:"all_reps_completed"`
	Distance         float64 `json:"distance,omitempty"`
	Duration         float64 `json:"duration,omitempty"`
}

// ProgressionResult is the outcome of Suggest.
type ProgressionResult struct {
	HasHistory      bool             `json:"has_history"`
	Message         string           `json:"message,omitempty"`
	Category        string           `json:"category,omitempty"`
	Rate            *Rate            `json:"rate,omitempty"`
	LastPerformance *LastPerformance `json:"last_performance,omitempty"`
	Suggestions     []Suggestion     `json:"suggestions"`
}

// setStats summarizes the valid sets of one session.
type setStats struct {
	avgWeight  float64
	maxWeight  float64
	avgReps    float64
	maxReps    int
	count      int
	hitAllReps bool
}

// Suggest proposes next-session targets for the named exercise from the
// two most recent completed sessions in workouts (newest first).
func Suggest(workouts []models.Workout, name string, profile models.Profile, th Thresholds) ProgressionResult {
	th = th.withDefaults()
	profile = profile.Normalized()

	history := History(workouts, name, 2)
	if len(history) == 0 {
		return ProgressionResult{Message: MsgNoHistory, Suggestions: []Suggestion{}}
	}
	latest := history[0]
	if latest.IsCardio {
		return suggestCardio(latest)
	}

	rate := RateFor(latest.Category, profile.TrainingExperience)
	stats, ok := summarize(latest.Sets, th.RepTolerance)
	if !ok {
		return ProgressionResult{Message: MsgNoValidSets, Suggestions: []Suggestion{}}
	}

	base := baseConfidence
	if stats.hitAllReps {
		base += hitRepsBonus
	}
	if len(history) > 1 && PercentChange(ExerciseVolume(history[0]), ExerciseVolume(history[1])) > 0 {
		base += positiveTrendBonus
	}

	avgReps := int(roundHalfUp(stats.avgReps))
	var suggestions []Suggestion

	if stats.maxWeight > 0 && stats.hitAllReps {
		weight := round2(stats.maxWeight + rate.Weight)
		conf := weightConfidence(base, stats.hitAllReps)
		suggestions = append(suggestions, Suggestion{
			Type:       SuggestWeight,
			Weight:     weight,
			Reps:       avgReps,
			Sets:       stats.count,
			Confidence: adjustForGoal(conf, SuggestWeight, profile.PrimaryGoal),
			Rationale: fmt.Sprintf("All target reps completed at %s. Add %s for %d sets of %d (%s step).",
				num(stats.maxWeight), num(rate.Weight), stats.count, avgReps, rate.Frequency),
			Targets: uniformTargets(stats.count, weight, avgReps),
		})
	}

	reps := int(math.Ceil(float64(stats.maxReps) + rate.Reps))
	suggestions = append(suggestions, Suggestion{
		Type:       SuggestReps,
		Weight:     stats.maxWeight,
		Reps:       reps,
		Sets:       stats.count,
		Confidence: adjustForGoal(min(base+5, 90), SuggestReps, profile.PrimaryGoal),
		Rationale: fmt.Sprintf("Keep %s and aim for %d reps per set, up from a best of %d.",
			num(stats.maxWeight), reps, stats.maxReps),
		Targets: uniformTargets(stats.count, stats.maxWeight, reps),
	})

	if stats.count < maxSetCount {
		sets := min(stats.count+int(math.Ceil(rate.Sets)), maxSetCount)
		addedWeight := round2(stats.maxWeight * addedSetWeightFactor)
		addedReps := max(avgReps-1, 1)
		targets := uniformTargets(stats.count, stats.maxWeight, avgReps)
		for range sets - stats.count {
			targets = append(targets, SetTarget{Weight: addedWeight, Reps: addedReps})
		}
		suggestions = append(suggestions, Suggestion{
			Type:       SuggestSets,
			Weight:     stats.maxWeight,
			Reps:       avgReps,
			Sets:       sets,
			Confidence: adjustForGoal(min(base, 85), SuggestSets, profile.PrimaryGoal),
			Rationale: fmt.Sprintf("Add %d set(s) at %s × %d to build volume.",
				sets-stats.count, num(addedWeight), addedReps),
			Targets: targets,
		})
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return ProgressionResult{
		HasHistory: true,
		Category:   latest.Category,
		Rate:       &rate,
		LastPerformance: &LastPerformance{
			Weight:           stats.maxWeight,
			AvgWeight:        round2(stats.avgWeight),
			Reps:             stats.maxReps,
			AvgReps:          stats.avgReps,
			Sets:             stats.count,
			AllRepsCompleted: stats.hitAllReps,
		},
		Suggestions: suggestions,
	}
}

// summarize computes stats over the sets with both weight and reps above
// zero. It reports false when there are none.
func summarize(sets []models.Set, repTolerance float64) (setStats, bool) {
	st := setStats{hitAllReps: true}
	var weightSum, repsSum float64
	for _, s := range sets {
		weight := s.EffectiveWeight().Float()
		reps := s.EffectiveReps()
		if weight <= 0 || reps <= 0 {
			continue
		}
		st.count++
		weightSum += weight
		repsSum += float64(reps)
		st.maxWeight = max(st.maxWeight, weight)
		st.maxReps = max(st.maxReps, reps)

		if planned := s.Reps.Planned.Float(); planned > 0 && float64(reps) < repTolerance*planned {
			st.hitAllReps = false
		}
	}
	if st.count == 0 {
		return setStats{}, false
	}
	st.avgWeight = weightSum / float64(st.count)
	st.avgReps = repsSum / float64(st.count)
	return st, true
}

func weightConfidence(base int, hitAllReps bool) int {
	if hitAllReps {
		return min(base+10, 95)
	}
	return max(base-20, 40)
}

// adjustForGoal nudges a confidence score toward the suggestion types that
// suit the user's goal, then clamps it.
func adjustForGoal(conf int, t SuggestionType, goal string) int {
	switch goal {
	case models.GoalStrength:
		switch t {
		case SuggestWeight:
			conf += 10
		case SuggestReps:
			conf -= 5
		}
	case models.GoalHypertrophy:
		switch t {
		case SuggestReps, SuggestSets:
			conf += 5
		}
	case models.GoalEndurance:
		switch t {
		case SuggestReps:
			conf += 10
		case SuggestWeight:
			conf -= 10
		}
	}
	return min(max(conf, minConfidence), maxConfidence)
}

func suggestCardio(latest HistoryEntry) ProgressionResult {
	var last models.Set
	if n := len(latest.Sets); n > 0 {
		last = latest.Sets[n-1]
	}
	distance, duration := last.EffectiveDistance(), last.EffectiveDuration()

	var suggestions []Suggestion
	if distance > 0 {
		d := round2(distance + cardioDistanceStep)
		suggestions = append(suggestions, Suggestion{
			Type:       SuggestDistance,
			Distance:   d,
			Duration:   duration,
			Confidence: cardioDistanceScore,
			Rationale:  fmt.Sprintf("Cover %s in the same time.", num(d)),
			Targets:    []SetTarget{{Distance: d, Duration: duration}},
		})
	}
	if duration > 0 {
		d := round2(duration + cardioDurationStep)
		suggestions = append(suggestions, Suggestion{
			Type:       SuggestDuration,
			Distance:   distance,
			Duration:   d,
			Confidence: cardioDurationScore,
			Rationale:  fmt.Sprintf("Keep the distance and extend the session to %s minutes.", num(d)),
			Targets:    []SetTarget{{Distance: distance, Duration: d}},
		})
	}
	if suggestions == nil {
		suggestions = []Suggestion{}
	}

	return ProgressionResult{
		HasHistory: true,
		Category:   latest.Category,
		LastPerformance: &LastPerformance{
			Sets:             len(latest.Sets),
			AllRepsCompleted: true,
			Distance:         distance,
			Duration:         duration,
		},
		Suggestions: suggestions,
	}
}

// ApplySuggestion replaces the exercise's sets with planned sets built from
// the suggestion's targets.
func ApplySuggestion(ex *models.Exercise, s Suggestion) {
	sets := make([]models.Set, 0, len(s.Targets))
	for _, t := range s.Targets {
		var set models.Set
		switch {
		case s.Type == SuggestDistance || s.Type == SuggestDuration:
			set.Distance = models.Planned(models.Num(t.Distance))
			set.Duration = models.Planned(models.Num(t.Duration))
		case t.Weight > 0:
			set.Weight = models.Planned(models.Num(t.Weight))
			set.Reps = models.Planned(models.Num(float64(t.Reps)))
		default:
			set.Weight = models.Planned(models.Bodyweight())
			set.Reps = models.Planned(models.Num(float64(t.Reps)))
		}
		sets = append(sets, set)
	}
	ex.Sets = sets
}

func uniformTargets(n int, weight float64, reps int) []SetTarget {
	targets := make([]SetTarget, n)
	for i := range targets {
		targets[i] = SetTarget{Weight: weight, Reps: reps}
	}
	return targets
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
