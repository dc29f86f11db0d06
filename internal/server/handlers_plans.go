package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/training"
	"github.com/go-chi/chi/v5"
)

var (
	errNotAPlan     = errors.New("only draft and scheduled workouts can be edited")
	errNoSuggestion = errors.New("no matching suggestion")
)

// editPlan loads the plan named in the URL, applies edit and saves the
// result. The saved plan is written back.
func (s *Server) editPlan(w http.ResponseWriter, r *http.Request, edit func(*models.Workout) error) {
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
	if wk.Status != models.StatusDraft && wk.Status != models.StatusScheduled {
		s.writeError(w, fmt.Errorf("workout %s is %s: %w", id, wk.Status, errNotAPlan))
		return
	}
	if err := edit(wk); err != nil {
		s.writeError(w, err)
		return
	}
	wk.NormalizeSupersets()
	if err := wk.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.PersistWorkoutPlan(r.Context(), wk); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleAddPlanExercise(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name       string   `json:"name"`
		Category   string   `json:"category"`
		FocusAreas []string `json:"focus_areas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	s.editPlan(w, r, func(wk *models.Workout) error {
		wk.AddExercise(in.Name, in.Category, in.FocusAreas)
		return nil
	})
}

func (s *Server) handleRemovePlanExercise(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exerciseID")
	s.editPlan(w, r, func(wk *models.Workout) error {
		return wk.RemoveExercise(exID)
	})
}

// handleDetachPlanExercise takes one exercise out of its superset.
func (s *Server) handleDetachPlanExercise(w http.ResponseWriter, r *http.Request) {
	exID := chi.URLParam(r, "exerciseID")
	s.editPlan(w, r, func(wk *models.Workout) error {
		if ex := wk.Exercise(exID); ex != nil && ex.SupersetID == "" {
			return fmt.Errorf("%s: %w", exID, models.ErrSupersetNotFound)
		}
		return wk.RemoveFromSuperset(exID)
	})
}

func (s *Server) handleCreatePlanSuperset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string   `json:"name"`
		ExerciseIDs []string `json:"exercise_ids"`
		Rounds      int      `json:"rounds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.editPlan(w, r, func(wk *models.Workout) error {
		_, err := wk.CreateSuperset(in.Name, in.ExerciseIDs, in.Rounds)
		return err
	})
}

func (s *Server) handleDeletePlanSuperset(w http.ResponseWriter, r *http.Request) {
	ssID := chi.URLParam(r, "supersetID")
	s.editPlan(w, r, func(wk *models.Workout) error {
		return wk.DeleteSuperset(ssID)
	})
}

// handleApplySuggestion replaces an exercise's sets with the targets of a
// progression suggestion. The type parameter picks the suggestion; without
// it the first one is used.
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exID := chi.URLParam(r, "exerciseID")
	want := training.SuggestionType(r.URL.Query().Get("type"))
	s.editPlan(w, r, func(wk *models.Workout) error {
		ex := wk.Exercise(exID)
		if ex == nil {
			return fmt.Errorf("%s: %w", exID, models.ErrExerciseNotFound)
		}
		result, err := s.suggest(r, uid, ex.Name)
		if err != nil {
			return err
		}
		for _, sg := range result.Suggestions {
			if want == "" || sg.Type == want {
				training.ApplySuggestion(ex, sg)
				return nil
			}
		}
		return fmt.Errorf("%s: %w", ex.Name, errNoSuggestion)
	})
}
