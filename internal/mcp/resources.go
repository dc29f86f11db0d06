package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentWorkoutDays = 14

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := h.now()
	start := end.AddDate(0, 0, -recentWorkoutDays)

	workouts, err := h.ds.QueryCompletedWorkouts(ctx, uid, start, end)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return jsonContents(req, workouts)
}

func (h *handlers) scheduledWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.FetchScheduledWorkouts(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return jsonContents(req, workouts)
}

func (h *handlers) profile(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	p, err := h.ds.GetProfile(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Warn("profile resource: falling back to defaults", "error", err)
		p = models.Profile{}
	}
	return jsonContents(req, p.Normalized())
}

func jsonContents(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
