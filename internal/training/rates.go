package training

import "github.com/claude/liftlog/internal/models"

// Frequency is how often a rate of progression is meant to be applied.
type Frequency string

const (
	Weekly   Frequency = "weekly"
	BiWeekly Frequency = "bi-weekly"
)

// Rate is how much to add per progression step.
type Rate struct {
	Weight    float64   `json:"weight"`
	Reps      float64   `json:"reps"`
	Sets      float64   `json:"sets"`
	Frequency Frequency `json:"frequency"`
}

// progressionRates is keyed by category, then training experience.
var progressionRates = map[string]map[string]Rate{
	models.CategoryCompound: {
		models.ExperienceBeginner:     {Weight: 5, Reps: 2, Sets: 0.5, Frequency: Weekly},
		models.ExperienceIntermediate: {Weight: 2.5, Reps: 1, Sets: 0.25, Frequency: Weekly},
		models.ExperienceAdvanced:     {Weight: 2.5, Reps: 1, Sets: 0.25, Frequency: BiWeekly},
	},
	models.CategoryIsolation: {
		models.ExperienceBeginner:     {Weight: 2.5, Reps: 2, Sets: 0.5, Frequency: Weekly},
		models.ExperienceIntermediate: {Weight: 2.5, Reps: 1, Sets: 0.25, Frequency: Weekly},
		models.ExperienceAdvanced:     {Weight: 1.25, Reps: 1, Sets: 0.25, Frequency: BiWeekly},
	},
	models.CategoryBodyweight: {
		models.ExperienceBeginner:     {Weight: 0, Reps: 2, Sets: 0.5, Frequency: Weekly},
		models.ExperienceIntermediate: {Weight: 0, Reps: 1, Sets: 0.25, Frequency: Weekly},
		models.ExperienceAdvanced:     {Weight: 0, Reps: 1, Sets: 0.25, Frequency: BiWeekly},
	},
}

// RateFor looks up the progression rate. Categories without their own rates
// (flexibility, custom and anything unrecognized) use the intermediate
// isolation rate.
func RateFor(category, experience string) Rate {
	byExperience, ok := progressionRates[category]
	if !ok {
		return progressionRates[models.CategoryIsolation][models.ExperienceIntermediate]
	}
	if r, ok := byExperience[experience]; ok {
		return r
	}
	return byExperience[models.ExperienceIntermediate]
}
