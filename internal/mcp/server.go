package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/training"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, th training.Thresholds, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog training log. Query completed and scheduled workouts, per-exercise history, progress indicators and progression suggestions. All data is scoped to the authenticated user."),
	)

	h := newHandlers(ds, th, log)

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetScheduledWorkouts, Handler: h.getScheduledWorkouts},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetProgressIndicator, Handler: h.getProgressIndicator},
		server.ServerTool{Tool: toolGetProgressionSuggestions, Handler: h.getProgressionSuggestions},
		server.ServerTool{Tool: toolGetProgressSummary, Handler: h.getProgressSummary},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resScheduledWorkouts, Handler: h.scheduledWorkouts},
		server.ServerResource{Resource: resProfile, Handler: h.profile},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	th  training.Thresholds
	log *slog.Logger
	now func() time.Time
}

func newHandlers(ds DataSource, th training.Thresholds, log *slog.Logger) *handlers {
	return &handlers{ds: ds, th: th, log: log, now: time.Now}
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"liftlog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Completed workouts from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resScheduledWorkouts = mcp.NewResource(
	"liftlog://scheduled_workouts",
	"Scheduled Workouts",
	mcp.WithResourceDescription("Planned workouts that have not been started yet"),
	mcp.WithMIMEType("application/json"),
)

var resProfile = mcp.NewResource(
	"liftlog://profile",
	"Training Profile",
	mcp.WithResourceDescription("Training experience and primary goal used for progression suggestions"),
	mcp.WithMIMEType("application/json"),
)
