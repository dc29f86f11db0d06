package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/claude/liftlog/internal/models"
)

// ErrEmptyExport is returned for an export with no content.
var ErrEmptyExport = errors.New("export is empty")

// Parse reads a LiftLog export: either the versioned envelope or a bare
// array of workouts.
func Parse(r io.Reader) ([]models.Workout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyExport
	}

	if data[0] == '[' {
		var workouts []models.Workout
		if err := json.Unmarshal(data, &workouts); err != nil {
			return nil, fmt.Errorf("decoding workout list: %w", err)
		}
		return workouts, nil
	}

	var file models.ExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	if file.Version > models.ExportVersion {
		return nil, fmt.Errorf("export version %d is newer than supported version %d", file.Version, models.ExportVersion)
	}
	return file.Workouts, nil
}

// Encode writes workouts as a versioned export.
func Encode(w io.Writer, workouts []models.Workout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(models.ExportFile{Version: models.ExportVersion, Workouts: workouts})
}
