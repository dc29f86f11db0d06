package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetOrCreateUser finds or creates a user by Tailscale login name.
// Returns the user ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// GetProfile returns the user's training profile. Users who never saved one
// get the defaults.
func (db *DB) GetProfile(ctx context.Context, userID int) (models.Profile, error) {
	p := models.Profile{UserID: userID}
	err := db.Pool.QueryRow(ctx,
		`SELECT display_name, training_experience, primary_goal FROM profiles WHERE user_id = $1`,
		userID).Scan(&p.DisplayName, &p.TrainingExperience, &p.PrimaryGoal)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("querying profile: %w", err)
	}
	return p.Normalized(), nil
}

// UpsertProfile saves the user's training profile.
func (db *DB) UpsertProfile(ctx context.Context, p models.Profile) error {
	p = p.Normalized()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO profiles (user_id, display_name, training_experience, primary_goal)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			training_experience = EXCLUDED.training_experience,
			primary_goal = EXCLUDED.primary_goal,
			updated_at = NOW()`,
		p.UserID, p.DisplayName, p.TrainingExperience, p.PrimaryGoal)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}
