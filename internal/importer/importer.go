package importer

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	WorkoutsInserted   int
	WorkoutsDuplicated int
	WorkoutsRejected   int

	Rejections []string
}

// Importer reads workout exports from a directory tree and stores them.
type Importer struct {
	provider *ingest.Provider
	log      *slog.Logger
	userID   int
	dryRun   bool
	stats    Stats
}

// New creates a new Importer. In dry-run mode provider may be nil.
func New(provider *ingest.Provider, log *slog.Logger, userID int, dryRun bool) *Importer {
	return &Importer{provider: provider, log: log, userID: userID, dryRun: dryRun}
}

// Format returns the parser for an export file by name, or nil if the file
// is not an export: .json and .json.gz are LiftLog exports, .csv and .csv.gz
// are Alpha Progression exports.
func Format(name string) func(io.Reader) ([]models.Workout, error) {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	switch filepath.Ext(name) {
	case ".json":
		return ingest.Parse
	case ".csv":
		return alpha.Parse
	default:
		return nil
	}
}

// Import processes every export file under dir in lexical order. Files that
// fail to parse are counted and skipped; storage errors stop the import.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		parse := Format(d.Name())
		if parse == nil {
			imp.stats.FilesSkipped++
			return nil
		}
		return imp.importFile(ctx, path, parse)
	})
	return &imp.stats, err
}

func (imp *Importer) importFile(ctx context.Context, path string, parse func(io.Reader) ([]models.Workout, error)) error {
	workouts, err := readFile(path, parse)
	if err != nil {
		imp.log.Warn("parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	if len(workouts) == 0 {
		imp.stats.FilesSkipped++
		return nil
	}
	imp.stats.FilesProcessed++

	if imp.dryRun {
		now := time.Now().UTC()
		for i := range workouts {
			if err := ingest.Prepare(&workouts[i], imp.userID, now); err != nil {
				imp.reject(path, err.Error())
				continue
			}
			imp.stats.WorkoutsInserted++
		}
		return nil
	}

	result, err := imp.provider.Persist(ctx, workouts, imp.userID)
	if err != nil {
		return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}
	imp.stats.WorkoutsInserted += result.WorkoutsInserted
	imp.stats.WorkoutsDuplicated += result.WorkoutsSkipped
	for _, msg := range result.Errors {
		imp.reject(path, msg)
	}
	imp.log.Info("imported file", "file", filepath.Base(path),
		"inserted", result.WorkoutsInserted, "duplicates", result.WorkoutsSkipped, "rejected", result.WorkoutsRejected)
	return nil
}

func (imp *Importer) reject(path, msg string) {
	imp.stats.WorkoutsRejected++
	imp.stats.Rejections = append(imp.stats.Rejections, filepath.Base(path)+": "+msg)
}

// readFile opens path, transparently gunzipping .gz files, and parses it.
func readFile(path string, parse func(io.Reader) ([]models.Workout, error)) ([]models.Workout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return parse(r)
}
