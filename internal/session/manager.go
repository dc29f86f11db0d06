package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Workouts is the persistence the manager needs: loading and marking
// scheduled plans, and saving finished workouts.
type Workouts interface {
	GetWorkout(ctx context.Context, id string, userID int) (*models.Workout, error)
	MarkWorkoutStarted(ctx context.Context, id string, userID int, at time.Time) error
	PersistCompletedWorkout(ctx context.Context, w *models.Workout) error
}

// Manager runs live sessions on top of a Store. Every operation loads the
// session, applies the change and saves it back under one lock.
type Manager struct {
	store    *Store
	workouts Workouts
	log      *slog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewManager creates a Manager.
func NewManager(store *Store, workouts Workouts, logger *slog.Logger) *Manager {
	return &Manager{store: store, workouts: workouts, log: logger, now: time.Now}
}

// Current returns the user's live session.
func (m *Manager) Current(ctx context.Context, userID int) (*Session, error) {
	return m.store.Load(ctx, userID)
}

// Start begins a live session for w. It fails with ErrSessionActive if the
// user already has one.
func (m *Manager) Start(ctx context.Context, userID int, w models.Workout) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start(ctx, userID, w)
}

func (m *Manager) start(ctx context.Context, userID int, w models.Workout) (*Session, error) {
	if err := m.ensureIdle(ctx, userID); err != nil {
		return nil, err
	}
	sess := New(userID, w, m.now())
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.log.Info("workout started", "user_id", userID, "workout_id", sess.Workout.ID, "exercises", len(sess.Workout.Exercises))
	return sess, nil
}

// StartScheduled starts the stored plan with the given id and marks it started.
func (m *Manager) StartScheduled(ctx context.Context, userID int, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureIdle(ctx, userID); err != nil {
		return nil, err
	}
	plan, err := m.workouts.GetWorkout(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", id, err)
	}
	if err := m.workouts.MarkWorkoutStarted(ctx, id, userID, m.now()); err != nil {
		return nil, fmt.Errorf("marking plan %s started: %w", id, err)
	}
	return m.start(ctx, userID, *plan)
}

func (m *Manager) ensureIdle(ctx context.Context, userID int) error {
	_, err := m.store.Load(ctx, userID)
	switch {
	case err == nil:
		return ErrSessionActive
	case errors.Is(err, ErrNoSession):
		return nil
	default:
		return err
	}
}

// update loads the session, applies fn and saves the result.
func (m *Manager) update(ctx context.Context, userID int, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Advance moves the user's session to the next step.
func (m *Manager) Advance(ctx context.Context, userID int) (*Session, error) {
	return m.update(ctx, userID, func(s *Session) error {
		s.Advance()
		return nil
	})
}

// Navigate jumps the user's session to exercise i.
func (m *Manager) Navigate(ctx context.Context, userID, i int) (*Session, error) {
	return m.update(ctx, userID, func(s *Session) error { return s.Navigate(i) })
}

// LogSet records a set in the user's session.
func (m *Manager) LogSet(ctx context.Context, userID int, exerciseID string, n int, in SetInput) (*Session, error) {
	return m.update(ctx, userID, func(s *Session) error { return s.LogSet(exerciseID, n, in) })
}

// AddSet appends a set to an exercise in the user's session.
func (m *Manager) AddSet(ctx context.Context, userID int, exerciseID string) (*Session, error) {
	return m.update(ctx, userID, func(s *Session) error {
		_, err := s.AddSet(exerciseID)
		return err
	})
}

// RemoveSet deletes a set from an exercise in the user's session.
func (m *Manager) RemoveSet(ctx context.Context, userID int, exerciseID string, n int) (*Session, error) {
	return m.update(ctx, userID, func(s *Session) error { return s.RemoveSet(exerciseID, n) })
}

// Finish completes the user's workout and persists it. If persisting fails
// the session is kept so the caller can retry.
func (m *Manager) Finish(ctx context.Context, userID, rating int, notes string) (*models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	done := sess.Finish(m.now(), rating, notes)
	if err := m.workouts.PersistCompletedWorkout(ctx, &done); err != nil {
		m.log.Error("persisting finished workout", "user_id", userID, "workout_id", done.ID, "error", err)
		return nil, fmt.Errorf("saving workout: %w", err)
	}
	if err := m.store.Delete(ctx, userID); err != nil {
		m.log.Warn("clearing finished session", "user_id", userID, "error", err)
	}
	m.log.Info("workout finished", "user_id", userID, "workout_id", done.ID,
		"duration_min", done.Duration, "total_weight", done.TotalWeight)
	return &done, nil
}

// Discard drops the user's session without saving the workout.
func (m *Manager) Discard(ctx context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(ctx, userID)
}
