package mcp

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/training"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

const defaultHistoryLimit = 10

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query completed workouts in a date range. Returns full workouts with exercises, sets (planned and actual), supersets, rating and total weight."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetScheduledWorkouts = mcp.NewTool("get_scheduled_workouts",
	mcp.WithDescription("List planned workouts that have not been started yet, soonest first."),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Recent sessions of one exercise, newest first, each with a compact set summary (e.g. '100×10, 100×8') and the session volume."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name (e.g. 'Bench Press')")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions. Defaults to 10.")),
)

var toolGetProgressIndicator = mcp.NewTool("get_progress_indicator",
	mcp.WithDescription("Compare the volume of the two latest sessions of an exercise. Returns progressing, maintaining, declining, first-time or neutral (cardio)."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name")),
)

var toolGetProgressionSuggestions = mcp.NewTool("get_progression_suggestions",
	mcp.WithDescription("Suggest next-session targets (more weight, more reps or more sets; distance or duration for cardio) with confidence scores and per-set targets."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name")),
	mcp.WithString("experience", mcp.Description("Override the profile's training experience."), mcp.Enum(models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced)),
	mcp.WithString("goal", mcp.Description("Override the profile's primary goal."), mcp.Enum(models.GoalStrength, models.GoalHypertrophy, models.GoalEndurance)),
)

var toolGetProgressSummary = mcp.NewTool("get_progress_summary",
	mcp.WithDescription("Workout count, total weight, average rating and a volume series for a range, plus the latest performance of every exercise."),
	mcp.WithString("range", mcp.Description("Summary range. Defaults to week."), mcp.Enum(training.RangeWeek, training.RangeMonth, training.RangeYear)),
	mcp.WithString("search", mcp.Description("Filter the exercise list by name (case-insensitive substring)")),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	workouts, err := h.ds.QueryCompletedWorkouts(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return jsonResult(workouts)
}

func (h *handlers) getScheduledWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.FetchScheduledWorkouts(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_scheduled_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return jsonResult(workouts)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	limit := req.GetInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	workouts, err := h.ds.FetchCompletedWorkouts(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(training.FormattedHistory(workouts, name, limit))
}

func (h *handlers) getProgressIndicator(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	workouts, err := h.ds.FetchCompletedWorkouts(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_progress_indicator", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(training.ProgressIndicator(workouts, name, h.th))
}

func (h *handlers) getProgressionSuggestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	workouts, err := h.ds.FetchCompletedWorkouts(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_progression_suggestions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	profile, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_progression_suggestions profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if v := req.GetString("experience", ""); v != "" {
		profile.TrainingExperience = v
	}
	if v := req.GetString("goal", ""); v != "" {
		profile.PrimaryGoal = v
	}
	return jsonResult(training.Suggest(workouts, name, profile, h.th))
}

func (h *handlers) getProgressSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.FetchCompletedWorkouts(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_progress_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	summary := training.Summarize(workouts, h.now(), req.GetString("range", training.RangeWeek), req.GetString("search", ""))
	return jsonResult(summary)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
