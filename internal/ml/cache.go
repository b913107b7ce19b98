// Package ml implements the random forest classifier behind match outcome
// predictions, plus an in-memory prediction cache.
package ml

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/Rampex1/FootballMatchPredictor/internal/metrics"
	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// CacheKey identifies one side of one fixture under one trained model
type CacheKey struct {
	ModelID  uuid.UUID
	Team     string
	Opponent string
	Venue    models.Venue
	Date     time.Time
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", k.ModelID, k.Team, k.Opponent, k.Venue, k.Date.Format("2006-01-02"))
}

// PredictionCache provides in-memory caching for fixture predictions
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a prediction cache with the given entry TTL and
// expired-entry cleanup interval.
func NewPredictionCache(ttl, cleanupInterval time.Duration) *PredictionCache {
	return &PredictionCache{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get retrieves a cached prediction, or nil when absent or expired
func (pc *PredictionCache) Get(key CacheKey) *models.Prediction {
	if cached, found := pc.cache.Get(key.String()); found {
		if prediction, ok := cached.(*models.Prediction); ok {
			pc.mu.Lock()
			pc.hitCount++
			pc.mu.Unlock()
			metrics.RecordPredictionCacheHit()
			return prediction
		}
	}

	pc.mu.Lock()
	pc.missCount++
	pc.mu.Unlock()
	metrics.RecordPredictionCacheMiss()
	return nil
}

// Set stores a prediction in cache
func (pc *PredictionCache) Set(key CacheKey, prediction *models.Prediction) {
	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// Clear flushes the entire cache and resets the hit counters
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()

	pc.mu.Lock()
	pc.hitCount = 0
	pc.missCount = 0
	pc.mu.Unlock()
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	hits = pc.hitCount
	misses = pc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
