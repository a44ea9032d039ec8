package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/akashjainn/propsage-sub000/internal/metrics"
	"github.com/akashjainn/propsage-sub000/internal/models"
)

// ResultCache keeps recent market pricings keyed by a fingerprint of the request, so an
// unchanged market is not re-priced on every scheduled run
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a new result cache
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Fingerprint identifies a request by player and content. Any change to quotes,
// features, prior or evidence yields a new fingerprint.
func Fingerprint(req *models.MarketRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint market request: %w", err)
	}
	return fmt.Sprintf("%s|%s", req.PlayerID, uuid.NewSHA1(uuid.NameSpaceOID, data)), nil
}

// Get retrieves a cached pricing
func (rc *ResultCache) Get(key string) (*MarketPricing, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if result, found := rc.cache.Get(key); found {
		if priced, ok := result.(*MarketPricing); ok {
			rc.hitCount++
			rc.updateMetrics()
			return priced, true
		}
	}

	rc.missCount++
	rc.updateMetrics()
	return nil, false
}

// Set stores a pricing. When the cache is full and nothing has expired the entry is
// dropped.
func (rc *ResultCache) Set(key string, priced *MarketPricing) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.maxSize > 0 && rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}

	rc.cache.Set(key, priced, rc.ttl)
}

// Invalidate removes every cached pricing for a player
func (rc *ResultCache) Invalidate(playerID string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	removed := 0
	prefix := playerID + "|"
	for k := range rc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			rc.cache.Delete(k)
			removed++
		}
	}
	return removed
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.stats()
}

func (rc *ResultCache) stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount
	misses = rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (rc *ResultCache) updateMetrics() {
	_, _, ratio := rc.stats()
	metrics.UpdateCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}
