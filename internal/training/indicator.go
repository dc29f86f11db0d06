package training

import (
	"fmt"
	"math"

	"github.com/claude/liftlog/internal/models"
)

// IndicatorType classifies the latest session against the one before it.
type IndicatorType string

const (
	IndicatorFirstTime   IndicatorType = "first-time"
	IndicatorNeutral     IndicatorType = "neutral"
	IndicatorProgress    IndicatorType = "progress"
	IndicatorDecline     IndicatorType = "decline"
	IndicatorMaintaining IndicatorType = "maintaining"
)

// Indicator is the progress badge shown next to an exercise.
type Indicator struct {
	Type   IndicatorType `json:"type"`
	Text   string        `json:"text"`
	Color  string        `json:"color,omitempty"`
	Change string        `json:"change,omitempty"`
}

// PercentChange is the relative change from previous to current, in percent.
// A zero previous value yields 0.
func PercentChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// ProgressIndicator compares the volume of the two most recent sessions of
// the named exercise.
func ProgressIndicator(workouts []models.Workout, name string, th Thresholds) Indicator {
	th = th.withDefaults()
	history := History(workouts, name, 2)
	if len(history) < 2 {
		return Indicator{Type: IndicatorFirstTime, Text: "First Time!"}
	}
	if history[0].IsCardio {
		return Indicator{Type: IndicatorNeutral, Text: "Track Progress", Color: "gray"}
	}

	pct := PercentChange(ExerciseVolume(history[0]), ExerciseVolume(history[1]))
	switch {
	case pct > th.ProgressBand:
		return Indicator{Type: IndicatorProgress, Text: "Progressing", Color: "green", Change: formatChange(pct)}
	case pct < -th.ProgressBand:
		return Indicator{Type: IndicatorDecline, Text: "Declining", Color: "red", Change: formatChange(pct)}
	default:
		return Indicator{Type: IndicatorMaintaining, Text: "Maintaining", Color: "yellow", Change: formatChange(pct)}
	}
}

func formatChange(pct float64) string {
	n := int(roundHalfUp(pct))
	if pct > 0 {
		return fmt.Sprintf("+%d%%", n)
	}
	return fmt.Sprintf("%d%%", n)
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
