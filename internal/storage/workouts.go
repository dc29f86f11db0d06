package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const workoutColumns = `doc`

// FetchCompletedWorkouts returns the user's completed workouts, newest first.
func (db *DB) FetchCompletedWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1 AND status = $2
		 ORDER BY date DESC NULLS LAST, created_at DESC`,
		userID, models.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("querying completed workouts: %w", err)
	}
	return collectWorkouts(rows)
}

// QueryCompletedWorkouts returns completed workouts dated within [start, end), newest first.
func (db *DB) QueryCompletedWorkouts(ctx context.Context, userID int, start, end time.Time) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1 AND status = $2 AND date >= $3 AND date < $4
		 ORDER BY date DESC, created_at DESC`,
		userID, models.StatusCompleted, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	return collectWorkouts(rows)
}

// FetchScheduledWorkouts returns the user's scheduled plans, soonest first.
func (db *DB) FetchScheduledWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = $1 AND status = $2
		 ORDER BY date ASC`,
		userID, models.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled workouts: %w", err)
	}
	return collectWorkouts(rows)
}

// PersistCompletedWorkout validates w and upserts it as completed.
func (db *DB) PersistCompletedWorkout(ctx context.Context, w *models.Workout) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid workout: %w", err)
	}
	w.Status = models.StatusCompleted
	return db.upsertWorkout(ctx, w)
}

// PersistWorkoutPlan upserts a plan. Plans with a date are scheduled, the
// rest stay drafts.
func (db *DB) PersistWorkoutPlan(ctx context.Context, w *models.Workout) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	if w.Date.IsZero() {
		w.Status = models.StatusDraft
	} else {
		w.Status = models.StatusScheduled
	}
	return db.upsertWorkout(ctx, w)
}

// InsertWorkout stores an imported workout. Returns true if inserted, false
// if a workout with the same id already exists.
func (db *DB) InsertWorkout(ctx context.Context, w *models.Workout) (bool, error) {
	id, doc, err := encodeWorkout(w)
	if err != nil {
		return false, err
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, status, date, created_at, started_at, total_weight, doc)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT DO NOTHING`,
		id, w.UserID, w.Status, nullTime(w.Date), w.CreatedAt, w.StartedAt, w.TotalWeight, doc)
	if err != nil {
		return false, fmt.Errorf("inserting workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (db *DB) upsertWorkout(ctx context.Context, w *models.Workout) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	id, doc, err := encodeWorkout(w)
	if err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, status, date, created_at, started_at, total_weight, doc)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status, date = EXCLUDED.date, started_at = EXCLUDED.started_at,
			total_weight = EXCLUDED.total_weight, doc = EXCLUDED.doc
		 WHERE workouts.user_id = EXCLUDED.user_id`,
		id, w.UserID, w.Status, nullTime(w.Date), w.CreatedAt, w.StartedAt, w.TotalWeight, doc)
	if err != nil {
		return fmt.Errorf("saving workout %s: %w", w.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving workout %s: %w", w.ID, ErrNotFound)
	}
	return nil
}

// GetWorkout returns one of the user's workouts by id.
func (db *DB) GetWorkout(ctx context.Context, id string, userID int) (*models.Workout, error) {
	wid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("workout %q: %w", id, ErrNotFound)
	}
	var doc []byte
	err = db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND user_id = $2`,
		wid, userID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout %s: %w", id, err)
	}
	var w models.Workout
	if err := json.Unmarshal(doc, &w); err != nil {
		return nil, fmt.Errorf("decoding workout %s: %w", id, err)
	}
	return &w, nil
}

// DeleteWorkout removes one of the user's workouts regardless of status.
func (db *DB) DeleteWorkout(ctx context.Context, id string, userID int) error {
	return db.deleteWorkout(ctx, id, userID, "")
}

// DeleteScheduledWorkout removes a scheduled plan. It fails with ErrNotFound
// if no scheduled plan with that id exists for the user.
func (db *DB) DeleteScheduledWorkout(ctx context.Context, id string, userID int) error {
	return db.deleteWorkout(ctx, id, userID, models.StatusScheduled)
}

func (db *DB) deleteWorkout(ctx context.Context, id string, userID int, status string) error {
	wid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("workout %q: %w", id, ErrNotFound)
	}
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2 AND ($3 = '' OR status = $3)`,
		wid, userID, status)
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting workout %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkWorkoutStarted moves a scheduled plan to started.
func (db *DB) MarkWorkoutStarted(ctx context.Context, id string, userID int, at time.Time) error {
	wid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("workout %q: %w", id, ErrNotFound)
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts SET
			status = $3, started_at = $4,
			doc = doc || jsonb_build_object('status', $3::text, 'started_at', $4::timestamptz)
		 WHERE id = $1 AND user_id = $2`,
		wid, userID, models.StatusStarted, at)
	if err != nil {
		return fmt.Errorf("marking workout %s started: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("marking workout %s started: %w", id, ErrNotFound)
	}
	return nil
}

func encodeWorkout(w *models.Workout) (uuid.UUID, []byte, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("workout id %q: %w", w.ID, err)
	}
	doc, err := json.Marshal(w)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("encoding workout %s: %w", w.ID, err)
	}
	return id, doc, nil
}

func collectWorkouts(rows pgx.Rows) ([]models.Workout, error) {
	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("scanning workouts: %w", err)
	}
	workouts := make([]models.Workout, 0, len(docs))
	for _, doc := range docs {
		var w models.Workout
		if err := json.Unmarshal(doc, &w); err != nil {
			return nil, fmt.Errorf("decoding workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
