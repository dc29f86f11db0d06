// Package cache keeps each user's completed workout history in memory so the
// history, indicator and suggestion endpoints do not reload it per request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"github.com/coocood/freecache"
	"golang.org/x/sync/singleflight"
)

const megabyte = 1024 * 1024

// Loader fetches a user's completed workouts, newest first.
type Loader func(ctx context.Context, userID int) ([]models.Workout, error)

// History caches Loader results per user.
type History struct {
	cache *freecache.Cache
	load  Loader
	ttl   int
	group singleflight.Group
	log   *slog.Logger

	// gen counts invalidations per user. A load only fills the cache if no
	// invalidation happened while it ran.
	mu  sync.Mutex
	gen map[int]uint64
}

// NewHistory creates a cache of sizeMB megabytes whose entries expire after
// ttlSeconds. A ttl of 0 keeps entries until they are evicted or invalidated.
func NewHistory(sizeMB, ttlSeconds int, load Loader, logger *slog.Logger) *History {
	return &History{
		cache: freecache.NewCache(sizeMB * megabyte),
		load:  load,
		ttl:   ttlSeconds,
		log:   logger,
		gen:   make(map[int]uint64),
	}
}

func key(userID int) []byte {
	return []byte("completed::" + strconv.Itoa(userID))
}

// Completed returns the user's completed workouts from the cache, loading
// them on a miss. Concurrent misses for the same user share one load.
func (h *History) Completed(ctx context.Context, userID int) ([]models.Workout, error) {
	if data, err := h.cache.Get(key(userID)); err == nil {
		var workouts []models.Workout
		if err := json.Unmarshal(data, &workouts); err == nil {
			return workouts, nil
		}
		h.cache.Del(key(userID))
	}

	v, err, _ := h.group.Do(strconv.Itoa(userID), func() (any, error) {
		gen := h.generation(userID)
		workouts, err := h.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		h.store(userID, gen, workouts)
		return workouts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Workout), nil
}

func (h *History) generation(userID int) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen[userID]
}

// store caches workouts unless the user was invalidated after gen was read.
func (h *History) store(userID int, gen uint64, workouts []models.Workout) {
	data, err := json.Marshal(workouts)
	if err != nil {
		h.log.Warn("encoding history for cache", "user_id", userID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen[userID] != gen {
		h.log.Debug("dropping stale history load", "user_id", userID)
		return
	}
	if err := h.cache.Set(key(userID), data, h.ttl); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) {
			h.log.Debug("history too large to cache", "user_id", userID, "bytes", len(data))
			return
		}
		h.log.Warn("caching history", "user_id", userID, "error", err)
	}
}

// Invalidate drops the user's cached history. Call it after any write that
// changes completed workouts.
// A load already in flight is neither cached nor shared with later callers.
func (h *History) Invalidate(userID int) {
	h.mu.Lock()
	h.gen[userID]++
	h.cache.Del(key(userID))
	h.mu.Unlock()
	h.group.Forget(strconv.Itoa(userID))
}

// Stats reports cache hits and misses since creation.
func (h *History) Stats() (hits, misses int64) {
	return h.cache.HitCount(), h.cache.MissCount()
}
