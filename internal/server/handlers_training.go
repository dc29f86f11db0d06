package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/training"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const dashboardRecent = 5

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetProfile(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	p = p.Normalized()
	p.UserID = uid
	if err := s.store.UpsertProfile(r.Context(), p); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// exerciseName reads the required name parameter.
func exerciseName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return "", false
	}
	return name, true
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	name, ok := exerciseName(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	workouts, err := s.history.Completed(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, training.FormattedHistory(workouts, name, limit))
}

func (s *Server) handleIndicator(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	name, ok := exerciseName(w, r)
	if !ok {
		return
	}
	workouts, err := s.history.Completed(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, training.ProgressIndicator(workouts, name, s.thresholds))
}

// handleSuggestions returns progression suggestions. The stored profile can
// be overridden per request with experience and goal parameters.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	name, ok := exerciseName(w, r)
	if !ok {
		return
	}
	result, err := s.suggest(r, uid, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// suggest runs the progression engine for name over the cached history and
// the user's profile, applying any experience and goal query overrides.
func (s *Server) suggest(r *http.Request, uid int, name string) (training.ProgressionResult, error) {
	var (
		workouts []models.Workout
		profile  models.Profile
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		workouts, err = s.history.Completed(ctx, uid)
		return err
	})
	g.Go(func() (err error) {
		profile, err = s.store.GetProfile(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return training.ProgressionResult{}, err
	}

	q := r.URL.Query()
	if v := q.Get("experience"); v != "" {
		profile.TrainingExperience = v
	}
	if v := q.Get("goal"); v != "" {
		profile.PrimaryGoal = v
	}
	return training.Suggest(workouts, name, profile, s.thresholds), nil
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workouts, err := s.history.Completed(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, training.Summarize(workouts, s.now(), q.Get("range"), q.Get("search")))
}

// dashboard is the landing screen: profile, upcoming plans, and the last
// week at a glance.
type dashboard struct {
	User      UserInfo                 `json:"user"`
	Profile   models.Profile           `json:"profile"`
	Scheduled []models.Workout         `json:"scheduled"`
	Recent    []models.Workout         `json:"recent"`
	Week      training.ProgressSummary `json:"week"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var (
		d         = dashboard{User: userInfoFromContext(r)}
		completed []models.Workout
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		d.Profile, err = s.store.GetProfile(ctx, uid)
		return err
	})
	g.Go(func() (err error) {
		d.Scheduled, err = s.store.FetchScheduledWorkouts(ctx, uid)
		return err
	})
	g.Go(func() (err error) {
		completed, err = s.history.Completed(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, err)
		return
	}

	d.Recent = completed[:min(len(completed), dashboardRecent)]
	d.Week = training.Summarize(completed, s.now(), training.RangeWeek, "")
	if d.Scheduled == nil {
		d.Scheduled = []models.Workout{}
	}
	if d.Recent == nil {
		d.Recent = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exercises, err := s.store.FetchExercisesByFocusArea(r.Context(), uid, r.URL.Query().Get("focus_area"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if exercises == nil {
		exercises = []models.CatalogExercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func decodeCatalogExercise(w http.ResponseWriter, r *http.Request, uid int) (*models.CatalogExercise, bool) {
	var e models.CatalogExercise
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return nil, false
	}
	e.UserID = uid
	e.Normalize()
	if e.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return nil, false
	}
	return &e, true
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	e, ok := decodeCatalogExercise(w, r, uid)
	if !ok {
		return
	}
	if err := s.store.CreateExercise(r.Context(), e); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	e, ok := decodeCatalogExercise(w, r, uid)
	if !ok {
		return
	}
	e.ID = chi.URLParam(r, "id")
	if err := s.store.UpdateExercise(r.Context(), e); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteExercise(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
