package training

import (
	"math"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Summary ranges.
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

const volumeSeriesLen = 10

// RangeStart returns the beginning of the named range ending at now.
// Unknown ranges are treated as a week.
func RangeStart(now time.Time, rangeName string) time.Time {
	switch rangeName {
	case RangeMonth:
		return now.AddDate(0, 0, -28)
	case RangeYear:
		return now.AddDate(0, -12, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// VolumePoint is one workout's total load in the volume chart.
type VolumePoint struct {
	Date        time.Time `json:"date"`
	Label       string    `json:"label"`
	TotalWeight float64   `json:"total_weight"`
}

// ExerciseSnapshot is the latest logged performance of one exercise.
type ExerciseSnapshot struct {
	Name       string    `json:"name"`
	LastWeight string    `json:"last_weight"`
	LastReps   string    `json:"last_reps"`
	Date       time.Time `json:"date"`
}

// ProgressSummary aggregates completed workouts over a time range.
type ProgressSummary struct {
	Range         string             `json:"range"`
	Since         time.Time          `json:"since"`
	TotalWorkouts int                `json:"total_workouts"`
	TotalWeight   float64            `json:"total_weight"`
	AverageRating float64            `json:"average_rating"`
	Volume        []VolumePoint      `json:"volume"`
	Exercises     []ExerciseSnapshot `json:"exercises"`
}

// Summarize builds the progress summary for workouts (newest first).
// Exercise snapshots cover all of history and are filtered by a
// case-insensitive substring of search.
func Summarize(workouts []models.Workout, now time.Time, rangeName, search string) ProgressSummary {
	switch rangeName {
	case RangeWeek, RangeMonth, RangeYear:
	default:
		rangeName = RangeWeek
	}
	since := RangeStart(now, rangeName)
	sum := ProgressSummary{Range: rangeName, Since: since, Volume: []VolumePoint{}}

	var inRange []models.Workout
	var ratingTotal int
	for _, w := range workouts {
		if w.Status != models.StatusCompleted || !w.Date.After(since) {
			continue
		}
		inRange = append(inRange, w)
		sum.TotalWeight += w.TotalWeight
		ratingTotal += w.Rating
	}
	sum.TotalWorkouts = len(inRange)
	if sum.TotalWorkouts > 0 {
		sum.AverageRating = math.Round(float64(ratingTotal)/float64(sum.TotalWorkouts)*10) / 10
	}

	n := min(len(inRange), volumeSeriesLen)
	for i := n - 1; i >= 0; i-- {
		w := inRange[i]
		sum.Volume = append(sum.Volume, VolumePoint{
			Date:        w.Date,
			Label:       w.Date.Format("Jan 2"),
			TotalWeight: w.TotalWeight,
		})
	}

	sum.Exercises = exerciseSnapshots(workouts, search)
	return sum
}

func exerciseSnapshots(workouts []models.Workout, search string) []ExerciseSnapshot {
	search = strings.ToLower(search)
	index := make(map[string]int)
	snaps := []ExerciseSnapshot{}

	for _, w := range workouts {
		if w.Status != models.StatusCompleted {
			continue
		}
		for _, ex := range w.Exercises {
			if !strings.Contains(strings.ToLower(ex.Name), search) {
				continue
			}
			i, seen := index[ex.Name]
			if seen && !w.Date.After(snaps[i].Date) {
				continue
			}
			snap := ExerciseSnapshot{Name: ex.Name, LastWeight: models.BodyweightMarker, LastReps: "--", Date: w.Date}
			if weight, reps, ok := firstLoggedSet(ex.Sets); ok {
				snap.LastWeight, snap.LastReps = weight, reps
			}
			if seen {
				snaps[i] = snap
			} else {
				index[ex.Name] = len(snaps)
				snaps = append(snaps, snap)
			}
		}
	}
	return snaps
}

// firstLoggedSet finds the first set with a weight and reps pair, preferring
// logged values over planned ones.
func firstLoggedSet(sets []models.Set) (string, string, bool) {
	for _, s := range sets {
		actual := filled(s.Weight.Actual) && filled(s.Reps.Actual)
		planned := filled(s.Weight.Planned) && filled(s.Reps.Planned)
		if !actual && !planned {
			continue
		}
		weight := s.Weight.Effective()
		if !filled(weight) {
			weight = s.Weight.Planned
		}
		reps := s.Reps.Effective()
		if !filled(reps) {
			reps = s.Reps.Planned
		}
		return weight.String(), reps.String(), true
	}
	return "", "", false
}

// filled reports whether a form value is non-blank and non-zero.
func filled(a models.Amount) bool {
	return a.Present() && (a.IsBodyweight() || a.Float() != 0)
}
