// Package ingest turns workout export files into stored workouts.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/training"
	"github.com/google/uuid"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	WorkoutsReceived int      `json:"workouts_received"`
	WorkoutsInserted int      `json:"workouts_inserted"`
	WorkoutsSkipped  int      `json:"workouts_skipped"`
	WorkoutsRejected int      `json:"workouts_rejected"`
	Errors           []string `json:"errors,omitempty"`

	Message string `json:"message,omitempty"`
}

// Store is where ingested workouts go. InsertWorkout reports false for a
// workout that is already stored.
type Store interface {
	InsertWorkout(ctx context.Context, w *models.Workout) (bool, error)
}

// idNamespace derives stable workout ids from foreign identifiers, so
// importing the same file twice does not duplicate workouts.
var idNamespace = uuid.MustParse("6f1c2a8e-4d7b-4c1e-9a35-0b8e2f6d7c41")

// StableID maps a foreign identifier to a workout id. UUIDs pass through.
func StableID(foreign string) string {
	if id, err := uuid.Parse(foreign); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(idNamespace, []byte(foreign)).String()
}

// Prepare readies an imported workout for storage: it assigns the owner and
// missing ids, defaults the status to completed, recomputes the total weight
// and validates the result.
func Prepare(w *models.Workout, userID int, now time.Time) error {
	w.UserID = userID
	if w.ID == "" {
		w.ID = models.NewID()
	} else {
		w.ID = StableID(w.ID)
	}
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		if ex.ID == "" {
			ex.ID = models.NewID()
		}
		ex.Category = models.NormalizeCategory(ex.Category)
	}
	w.NormalizeSupersets()

	switch w.Status {
	case "":
		w.Status = models.StatusCompleted
	case models.StatusCompleted, models.StatusScheduled, models.StatusDraft:
	default:
		return fmt.Errorf("workout %s: cannot import status %q", w.ID, w.Status)
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.Date.IsZero() {
		w.Date = w.CreatedAt
	}
	if w.Status == models.StatusCompleted {
		w.TotalWeight = training.TotalWeight(w.Exercises)
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("workout %s: %w", w.ID, err)
	}
	return nil
}

// Provider stores parsed workouts.
type Provider struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewProvider creates a Provider writing to store.
func NewProvider(store Store, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log, now: time.Now}
}

// Ingest parses a LiftLog export and stores its workouts.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*Result, error) {
	workouts, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}
	return p.Persist(ctx, workouts, userID)
}

// Persist prepares and inserts workouts one by one. Invalid workouts are
// rejected and reported in the result; a storage error aborts the run.
func (p *Provider) Persist(ctx context.Context, workouts []models.Workout, userID int) (*Result, error) {
	result := &Result{WorkoutsReceived: len(workouts)}
	now := p.now().UTC()

	for i := range workouts {
		w := &workouts[i]
		if err := Prepare(w, userID, now); err != nil {
			result.WorkoutsRejected++
			result.Errors = append(result.Errors, err.Error())
			p.log.Warn("rejecting imported workout", "user_id", userID, "error", err)
			continue
		}
		inserted, err := p.store.InsertWorkout(ctx, w)
		if err != nil {
			return result, fmt.Errorf("inserting workout %s: %w", w.ID, err)
		}
		if inserted {
			result.WorkoutsInserted++
		} else {
			result.WorkoutsSkipped++
		}
	}
	return result, nil
}
