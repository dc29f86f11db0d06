package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FetchExercisesByFocusArea lists catalog exercises tagged with focusArea,
// ordered by name. An empty focusArea lists the whole catalog.
func (db *DB) FetchExercisesByFocusArea(ctx context.Context, userID int, focusArea string) ([]models.CatalogExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, category, focus_areas, notes, created_at
		 FROM exercises
		 WHERE user_id = $1 AND ($2 = '' OR $2 = ANY(focus_areas))
		 ORDER BY name`,
		userID, focusArea)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CatalogExercise, error) {
		var (
			e  models.CatalogExercise
			id uuid.UUID
		)
		err := row.Scan(&id, &e.UserID, &e.Name, &e.Category, &e.FocusAreas, &e.Notes, &e.CreatedAt)
		e.ID = id.String()
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning exercises: %w", err)
	}
	return result, nil
}

// CreateExercise adds a catalog exercise and fills in its id.
func (db *DB) CreateExercise(ctx context.Context, e *models.CatalogExercise) error {
	e.Normalize()
	id := uuid.New()
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, user_id, name, category, focus_areas, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		id, e.UserID, e.Name, e.Category, e.FocusAreas, e.Notes).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting exercise %q: %w", e.Name, err)
	}
	e.ID = id.String()
	return nil
}

// UpdateExercise overwrites a catalog exercise owned by e.UserID.
func (db *DB) UpdateExercise(ctx context.Context, e *models.CatalogExercise) error {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return fmt.Errorf("exercise %q: %w", e.ID, ErrNotFound)
	}
	e.Normalize()
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET name = $3, category = $4, focus_areas = $5, notes = $6
		 WHERE id = $1 AND user_id = $2`,
		id, e.UserID, e.Name, e.Category, e.FocusAreas, e.Notes)
	if err != nil {
		return fmt.Errorf("updating exercise %s: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating exercise %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

// DeleteExercise removes a catalog exercise.
func (db *DB) DeleteExercise(ctx context.Context, id string, userID int) error {
	eid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("exercise %q: %w", id, ErrNotFound)
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1 AND user_id = $2`, eid, userID)
	if err != nil {
		return fmt.Errorf("deleting exercise %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting exercise %s: %w", id, ErrNotFound)
	}
	return nil
}
