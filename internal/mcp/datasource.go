package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	FetchCompletedWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	QueryCompletedWorkouts(ctx context.Context, userID int, start, end time.Time) ([]models.Workout, error)
	FetchScheduledWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	GetProfile(ctx context.Context, userID int) (models.Profile, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
