package training

// Thresholds are the tolerances used when judging a session against the
// previous one.
type Thresholds struct {
	// RepTolerance is the fraction of planned reps that counts as hitting
	// the target (0.9 means 9 of 10 planned reps is a hit).
	RepTolerance float64 `yaml:"rep_tolerance" json:"rep_tolerance"`
	// ProgressBand is the percent change in volume, either way, still
	// reported as maintaining.
	ProgressBand float64 `yaml:"progress_band" json:"progress_band"`
}

// DefaultThresholds are used for any threshold left at zero.
var DefaultThresholds = Thresholds{
	RepTolerance: 0.9,
	ProgressBand: 5,
}

func (t Thresholds) withDefaults() Thresholds {
	if t.RepTolerance <= 0 {
		t.RepTolerance = DefaultThresholds.RepTolerance
	}
	if t.ProgressBand <= 0 {
		t.ProgressBand = DefaultThresholds.ProgressBand
	}
	return t
}
