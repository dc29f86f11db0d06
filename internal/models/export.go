package models

// ExportVersion is the current version of the workout export envelope.
const ExportVersion = 1

// ExportFile is the on-disk format for exported workouts.
type ExportFile struct {
	Version  int       `json:"version"`
	Workouts []Workout `json:"workouts"`
}
