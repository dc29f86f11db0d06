package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/cache"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/alpha"
	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/training"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the persistence the handlers need. *storage.DB satisfies it.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	GetProfile(ctx context.Context, userID int) (models.Profile, error)
	UpsertProfile(ctx context.Context, p models.Profile) error

	QueryCompletedWorkouts(ctx context.Context, userID int, start, end time.Time) ([]models.Workout, error)
	FetchScheduledWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	PersistCompletedWorkout(ctx context.Context, w *models.Workout) error
	PersistWorkoutPlan(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, id string, userID int) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id string, userID int) error
	DeleteScheduledWorkout(ctx context.Context, id string, userID int) error

	FetchExercisesByFocusArea(ctx context.Context, userID int, focusArea string) ([]models.CatalogExercise, error)
	CreateExercise(ctx context.Context, e *models.CatalogExercise) error
	UpdateExercise(ctx context.Context, e *models.CatalogExercise) error
	DeleteExercise(ctx context.Context, id string, userID int) error

	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
}

// Options carries the settings the server takes from config.
type Options struct {
	APIKey     string
	Thresholds training.Thresholds
	// Registry receives the server's metrics and backs /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      Store
	sessions   *session.Manager
	history    *cache.History
	ingest     *ingest.Provider
	alpha      *alpha.Provider
	thresholds training.Thresholds
	apiKey     string
	metrics    *Metrics
	registry   *prometheus.Registry
	whois      WhoIsClient
	mcp        http.Handler
	log        *slog.Logger
	router     chi.Router
	now        func() time.Time
}

// New creates a new Server with all routes configured.
func New(store Store, sessions *session.Manager, history *cache.History, provider *ingest.Provider, opts Options, log *slog.Logger) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		store:      store,
		sessions:   sessions,
		history:    history,
		ingest:     provider,
		alpha:      alpha.NewProvider(provider),
		thresholds: opts.Thresholds,
		apiKey:     opts.APIKey,
		metrics:    NewMetrics("liftlog", reg, history),
		registry:   reg,
		log:        log,
		router:     chi.NewRouter(),
		now:        time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity from the dev user to tailnet WhoIs lookups.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.whois = lc
}

// SetMCP mounts an MCP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.mcp = h
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics(s.metrics))
	s.router.Use(CORS)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Import endpoint (API key required, used by liftlog-upload)
	s.router.Route("/api/v1/import", func(r chi.Router) {
		r.With(APIKeyAuth(s.apiKey)).Post("/", s.handleImport)
		r.With(s.identity).Get("/logs", s.handleImportLogs)
	})

	// Application endpoints (no auth, identity comes from tsnet)
	s.router.Group(func(r chi.Router) {
		r.Use(s.identity)

		r.Get("/api/v1/me", s.handleMe)
		r.Get("/api/v1/profile", s.handleGetProfile)
		r.Put("/api/v1/profile", s.handlePutProfile)
		r.Get("/api/v1/dashboard", s.handleDashboard)
		r.Get("/api/v1/progress", s.handleProgress)
		r.Get("/api/v1/export", s.handleExport)

		r.Get("/api/v1/workouts", s.handleQueryWorkouts)
		r.Post("/api/v1/workouts", s.handlePersistWorkout)
		r.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)

		r.Post("/api/v1/plans", s.handlePersistPlan)
		r.Post("/api/v1/plans/{id}/exercises", s.handleAddPlanExercise)
		r.Delete("/api/v1/plans/{id}/exercises/{exerciseID}", s.handleRemovePlanExercise)
		r.Delete("/api/v1/plans/{id}/exercises/{exerciseID}/superset", s.handleDetachPlanExercise)
		r.Post("/api/v1/plans/{id}/exercises/{exerciseID}/apply-suggestion", s.handleApplySuggestion)
		r.Post("/api/v1/plans/{id}/supersets", s.handleCreatePlanSuperset)
		r.Delete("/api/v1/plans/{id}/supersets/{supersetID}", s.handleDeletePlanSuperset)
		r.Get("/api/v1/scheduled", s.handleScheduled)
		r.Delete("/api/v1/scheduled/{id}", s.handleDeleteScheduled)
		r.Post("/api/v1/scheduled/{id}/start", s.handleStartScheduled)

		r.Route("/api/v1/session", func(r chi.Router) {
			r.Get("/", s.handleCurrentSession)
			r.Post("/", s.handleStartSession)
			r.Delete("/", s.handleDiscardSession)
			r.Post("/advance", s.handleAdvance)
			r.Post("/navigate", s.handleNavigate)
			r.Post("/finish", s.handleFinish)
			r.Post("/exercises/{exerciseID}/sets", s.handleAddSet)
			r.Put("/exercises/{exerciseID}/sets/{n}", s.handleLogSet)
			r.Delete("/exercises/{exerciseID}/sets/{n}", s.handleRemoveSet)
		})

		r.Route("/api/v1/exercises", func(r chi.Router) {
			r.Get("/history", s.handleExerciseHistory)
			r.Get("/indicator", s.handleIndicator)
			r.Get("/suggestions", s.handleSuggestions)
			r.Get("/catalog", s.handleCatalog)
			r.Post("/catalog", s.handleCreateExercise)
			r.Put("/catalog/{id}", s.handleUpdateExercise)
			r.Delete("/catalog/{id}", s.handleDeleteExercise)
		})

		r.HandleFunc("/mcp", s.handleMCP)
	})
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if s.mcp == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "mcp is not enabled"})
		return
	}
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	s.mcp.ServeHTTP(w, r.WithContext(liftmcp.WithUserID(r.Context(), uid)))
}
