package models

import "strings"

// Training experience levels.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// Primary training goals.
const (
	GoalStrength    = "strength"
	GoalHypertrophy = "hypertrophy"
	GoalEndurance   = "endurance"
)

// Profile holds the user settings that steer progression suggestions.
type Profile struct {
	UserID             int    `json:"user_id,omitempty"`
	DisplayName        string `json:"display_name,omitempty"`
	TrainingExperience string `json:"training_experience"`
	PrimaryGoal        string `json:"primary_goal"`
}

// Normalized returns a copy with unknown or empty fields set to their defaults.
func (p Profile) Normalized() Profile {
	switch e := strings.ToLower(strings.TrimSpace(p.TrainingExperience)); e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		p.TrainingExperience = e
	default:
		p.TrainingExperience = ExperienceIntermediate
	}
	switch g := strings.ToLower(strings.TrimSpace(p.PrimaryGoal)); g {
	case GoalStrength, GoalHypertrophy, GoalEndurance:
		p.PrimaryGoal = g
	default:
		p.PrimaryGoal = GoalHypertrophy
	}
	return p
}
