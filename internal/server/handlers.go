package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/training"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("start") == "" {
		workouts, err := s.history.Completed(r.Context(), uid)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if workouts == nil {
			workouts = []models.Workout{}
		}
		writeJSON(w, http.StatusOK, workouts)
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	workouts, err := s.store.QueryCompletedWorkouts(r.Context(), uid, start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handlePersistWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	wk, ok := decodeWorkout(w, r, uid, false)
	if !ok {
		return
	}
	wk.TotalWeight = training.TotalWeight(wk.Exercises)
	if wk.Date.IsZero() {
		wk.Date = s.now().UTC()
	}
	if err := s.store.PersistCompletedWorkout(r.Context(), wk); err != nil {
		s.writeError(w, err)
		return
	}
	s.history.Invalidate(uid)
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	wk, err := s.store.GetWorkout(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteWorkout(r.Context(), id, uid); err != nil {
		s.writeError(w, err)
		return
	}
	s.history.Invalidate(uid)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePersistPlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	wk, ok := decodeWorkout(w, r, uid, false)
	if !ok {
		return
	}
	if err := s.store.PersistWorkoutPlan(r.Context(), wk); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleScheduled(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workouts, err := s.store.FetchScheduledWorkouts(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleDeleteScheduled(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteScheduledWorkout(r.Context(), id, uid); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeWorkout reads a workout body, assigns it to uid and checks its
// structure. Missing ids are generated and supersets are gathered into
// blocks. With emptyOK an empty body decodes as an empty workout.
func decodeWorkout(w http.ResponseWriter, r *http.Request, uid int, emptyOK bool) (*models.Workout, bool) {
	var wk models.Workout
	if err := json.NewDecoder(r.Body).Decode(&wk); err != nil && !(emptyOK && errors.Is(err, io.EOF)) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return nil, false
	}
	wk.UserID = uid
	if wk.ID == "" {
		wk.ID = models.NewID()
	}
	for i := range wk.Exercises {
		if wk.Exercises[i].ID == "" {
			wk.Exercises[i].ID = models.NewID()
		}
		wk.Exercises[i].Category = models.NormalizeCategory(wk.Exercises[i].Category)
	}
	wk.NormalizeSupersets()
	if err := wk.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}
	return &wk, true
}

func workoutID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return "", false
	}
	return id.String(), true
}

// writeError maps domain errors to a status code. Anything unrecognised is
// logged and reported as a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrSetNotFound),
		errors.Is(err, models.ErrExerciseNotFound),
		errors.Is(err, models.ErrSupersetNotFound),
		errors.Is(err, errNoSuggestion):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrSessionActive),
		errors.Is(err, errNotAPlan):
		status = http.StatusConflict
	case errors.Is(err, session.ErrSetNotActive),
		errors.Is(err, session.ErrSetListFixed),
		errors.Is(err, session.ErrLastSet),
		errors.Is(err, training.ErrOutOfRange),
		errors.Is(err, models.ErrSupersetTooSmall),
		errors.Is(err, models.ErrSupersetSplit),
		errors.Is(err, models.ErrAlreadyInSuperset):
		status = http.StatusBadRequest
	default:
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
