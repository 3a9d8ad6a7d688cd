package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/angel-codi/fxnow/internal/domain/model"
)

type entry struct {
	rate     float64
	storedAt time.Time
}

// MemoryCache memoizes resolved national-bank rates keyed by currency and
// window end date.
type MemoryCache struct {
	mutex    sync.RWMutex
	cacheMap map[string]entry
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewMemoryCache(cacheTTL time.Duration, log zerolog.Logger) *MemoryCache {
	return &MemoryCache{
		cacheMap: make(map[string]entry),
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "history_cache").Logger(),
	}
}

func cacheKey(currency model.Currency, windowEnd time.Time) string {
	return fmt.Sprintf("%s-%s", currency, windowEnd.Format("2006-01-02"))
}

func (c *MemoryCache) Get(ctx context.Context, currency model.Currency, windowEnd time.Time) (float64, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	key := cacheKey(currency, windowEnd)
	e, found := c.cacheMap[key]
	if !found {
		return 0, false
	}

	if time.Since(e.storedAt) > c.cacheTTL {
		c.log.Debug().Str("key", key).Msg("cache entry expired")
		return 0, false
	}

	return e.rate, true
}

func (c *MemoryCache) Set(ctx context.Context, currency model.Currency, windowEnd time.Time, rate float64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cacheMap[cacheKey(currency, windowEnd)] = entry{rate: rate, storedAt: time.Now()}
	return nil
}

func (c *MemoryCache) ClearExpired(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.cacheMap {
		if now.Sub(e.storedAt) > c.cacheTTL {
			delete(c.cacheMap, key)
			removed++
		}
	}

	c.log.Debug().Int("count", removed).Msg("cleared expired cache entries")
	return nil
}
