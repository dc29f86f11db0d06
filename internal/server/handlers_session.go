package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
)

// sessionView is a live session plus what the logging screen derives from
// the sequencer position.
type sessionView struct {
	*session.Session
	Current     *models.Exercise `json:"current,omitempty"`
	Round       int              `json:"round,omitempty"`
	Rounds      int              `json:"rounds,omitempty"`
	ActiveSets  []int            `json:"active_sets"`
	CanEditSets bool             `json:"can_edit_sets"`
}

func viewOf(sess *session.Session) sessionView {
	w := &sess.Workout
	v := sessionView{
		Session:     sess,
		Current:     sess.Current(),
		Round:       sess.State.CurrentRound(w),
		ActiveSets:  sess.State.ActiveSets(w),
		CanEditSets: sess.State.CanEditSetList(w),
	}
	if ss := w.SupersetOf(sess.State.Index); ss != nil && !sess.State.Complete {
		v.Rounds = ss.Rounds
	}
	if v.ActiveSets == nil {
		v.ActiveSets = []int{}
	}
	return v
}

func (s *Server) writeSession(w http.ResponseWriter, sess *session.Session, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Current(r.Context(), uid)
	s.writeSession(w, sess, err)
}

// handleStartSession starts an ad-hoc workout from the posted plan. An empty
// body starts an empty workout.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	wk, ok := decodeWorkout(w, r, uid, true)
	if !ok {
		return
	}
	sess, err := s.sessions.Start(r.Context(), uid, *wk)
	s.writeSession(w, sess, err)
}

func (s *Server) handleStartScheduled(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.StartScheduled(r.Context(), uid, id)
	s.writeSession(w, sess, err)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Discard(r.Context(), uid); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Advance(r.Context(), uid)
	s.writeSession(w, sess, err)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var body struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Index == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index is required"})
		return
	}
	sess, err := s.sessions.Navigate(r.Context(), uid, *body.Index)
	s.writeSession(w, sess, err)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	n, ok := setIndex(w, r)
	if !ok {
		return
	}
	var in session.SetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sess, err := s.sessions.LogSet(r.Context(), uid, chi.URLParam(r, "exerciseID"), n, in)
	s.writeSession(w, sess, err)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.AddSet(r.Context(), uid, chi.URLParam(r, "exerciseID"))
	s.writeSession(w, sess, err)
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	n, ok := setIndex(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.RemoveSet(r.Context(), uid, chi.URLParam(r, "exerciseID"), n)
	s.writeSession(w, sess, err)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var body struct {
		Rating int    `json:"rating"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	done, err := s.sessions.Finish(r.Context(), uid, body.Rating, body.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.history.Invalidate(uid)
	s.metrics.CounterWorkoutsFinished.Inc()
	writeJSON(w, http.StatusOK, done)
}

func setIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set index"})
		return 0, false
	}
	return n, true
}
