package server

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// fakeStore is an in-memory Store. It also satisfies session.Workouts and
// ingest.Store so one instance backs the whole server in tests.
type fakeStore struct {
	mu         sync.Mutex
	workouts   map[string]models.Workout
	profiles   map[int]models.Profile
	exercises  map[string]models.CatalogExercise
	importLogs []storage.ImportLog
	users      map[string]int
	loads      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workouts:  map[string]models.Workout{},
		profiles:  map[int]models.Profile{},
		exercises: map[string]models.CatalogExercise{},
		users:     map[string]int{"local": 1},
	}
}

func (f *fakeStore) add(ws ...models.Workout) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range ws {
		f.workouts[w.ID] = w
	}
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.users[login]; ok {
		return id, nil
	}
	id := len(f.users) + 1
	f.users[login] = id
	return id, nil
}

func (f *fakeStore) GetProfile(_ context.Context, userID int) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		p = models.Profile{UserID: userID}.Normalized()
	}
	return p, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeStore) byStatus(userID int, status string) []models.Workout {
	var out []models.Workout
	for _, w := range f.workouts {
		if w.UserID == userID && w.Status == status {
			out = append(out, w)
		}
	}
	return out
}

// FetchCompletedWorkouts is the history cache loader.
func (f *fakeStore) FetchCompletedWorkouts(_ context.Context, userID int) ([]models.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	out := f.byStatus(userID, models.StatusCompleted)
	slices.SortFunc(out, func(a, b models.Workout) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (f *fakeStore) QueryCompletedWorkouts(_ context.Context, userID int, start, end time.Time) ([]models.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Workout
	for _, w := range f.byStatus(userID, models.StatusCompleted) {
		if !w.Date.Before(start) && w.Date.Before(end) {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b models.Workout) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (f *fakeStore) FetchScheduledWorkouts(_ context.Context, userID int) ([]models.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.byStatus(userID, models.StatusScheduled)
	slices.SortFunc(out, func(a, b models.Workout) int { return a.Date.Compare(b.Date) })
	return out, nil
}

func (f *fakeStore) PersistCompletedWorkout(_ context.Context, w *models.Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Status = models.StatusCompleted
	f.workouts[w.ID] = *w
	return nil
}

func (f *fakeStore) PersistWorkoutPlan(_ context.Context, w *models.Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Status = models.StatusDraft
	if !w.Date.IsZero() {
		w.Status = models.StatusScheduled
	}
	f.workouts[w.ID] = *w
	return nil
}

func (f *fakeStore) InsertWorkout(_ context.Context, w *models.Workout) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workouts[w.ID]; ok {
		return false, nil
	}
	f.workouts[w.ID] = *w
	return true, nil
}

func (f *fakeStore) GetWorkout(_ context.Context, id string, userID int) (*models.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &w, nil
}

func (f *fakeStore) MarkWorkoutStarted(_ context.Context, id string, userID int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.UserID != userID {
		return storage.ErrNotFound
	}
	w.Status = models.StatusStarted
	w.StartedAt = &at
	f.workouts[id] = w
	return nil
}

func (f *fakeStore) delete(id string, userID int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workouts[id]
	if !ok || w.UserID != userID || (status != "" && w.Status != status) {
		return storage.ErrNotFound
	}
	delete(f.workouts, id)
	return nil
}

func (f *fakeStore) DeleteWorkout(_ context.Context, id string, userID int) error {
	return f.delete(id, userID, "")
}

func (f *fakeStore) DeleteScheduledWorkout(_ context.Context, id string, userID int) error {
	return f.delete(id, userID, models.StatusScheduled)
}

func (f *fakeStore) FetchExercisesByFocusArea(_ context.Context, userID int, focusArea string) ([]models.CatalogExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CatalogExercise
	for _, e := range f.exercises {
		if e.UserID == userID && (focusArea == "" || slices.Contains(e.FocusAreas, focusArea)) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b models.CatalogExercise) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeStore) CreateExercise(_ context.Context, e *models.CatalogExercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = models.NewID()
	f.exercises[e.ID] = *e
	return nil
}

func (f *fakeStore) UpdateExercise(_ context.Context, e *models.CatalogExercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.exercises[e.ID]
	if !ok || old.UserID != e.UserID {
		return storage.ErrNotFound
	}
	f.exercises[e.ID] = *e
	return nil
}

func (f *fakeStore) DeleteExercise(_ context.Context, id string, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exercises[id]
	if !ok || e.UserID != userID {
		return storage.ErrNotFound
	}
	delete(f.exercises, id)
	return nil
}

func (f *fakeStore) InsertImportLog(_ context.Context, log storage.ImportLog) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = int64(len(f.importLogs) + 1)
	f.importLogs = append(f.importLogs, log)
	return log.ID, nil
}

func (f *fakeStore) QueryImportLogs(_ context.Context, userID, limit int) ([]storage.ImportLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.ImportLog
	for i := len(f.importLogs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.importLogs[i].UserID == userID {
			out = append(out, f.importLogs[i])
		}
	}
	return out, nil
}
