package letters

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"maktub/internal/model"
	"maktub/pkg/metrics"
)

const (
	// DefaultCacheKey is the only key used in practice.
	DefaultCacheKey = "submissions_data"

	// DefaultCacheDuration bounds how long a fetched letter list is served
	// without hitting the store.
	DefaultCacheDuration = 5 * time.Minute
)

// CacheEntry is one cached letter list with its fetch timestamp.
type CacheEntry struct {
	Value     []model.LetterRecord
	FetchedAt time.Time
}

// DurableStore persists the cache across restarts. Load returns (nil, nil)
// when nothing is stored. Implementations are best-effort: the cache logs
// their failures and carries on.
type DurableStore interface {
	Load(ctx context.Context) (*CacheEntry, error)
	Save(ctx context.Context, entry *CacheEntry) error
	Clear(ctx context.Context) error
}

// NopStore is a DurableStore that keeps nothing.
type NopStore struct{}

func (NopStore) Load(ctx context.Context) (*CacheEntry, error) { return nil, nil }
func (NopStore) Save(ctx context.Context, e *CacheEntry) error { return nil }
func (NopStore) Clear(ctx context.Context) error               { return nil }

// Cache is a time-boxed letter-list cache with a durable backing store.
// Reads never fail: an expired or missing entry reads as absent.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	store   DurableStore
	logger  *zap.Logger
	entries map[string]*CacheEntry
}

// NewCache builds a cache and rehydrates it from the durable store. A
// rehydrated entry that is already expired is cleared immediately rather
// than kept around as stale state.
func NewCache(ctx context.Context, ttl time.Duration, store DurableStore, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheDuration
	}
	if store == nil {
		store = NopStore{}
	}

	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		store:   store,
		logger:  logger,
		entries: make(map[string]*CacheEntry),
	}

	entry, err := store.Load(ctx)
	if err != nil {
		logger.Warn("Failed to rehydrate letter cache", zap.Error(err))
		return c
	}
	if entry == nil {
		return c
	}

	if c.expired(entry) {
		if err := store.Clear(ctx); err != nil {
			logger.Warn("Failed to clear expired durable cache", zap.Error(err))
		}
		logger.Info("Discarded expired durable cache entry",
			zap.Time("fetched_at", entry.FetchedAt),
		)
		return c
	}

	c.entries[DefaultCacheKey] = entry
	logger.Info("Rehydrated letter cache",
		zap.Int("letters", len(entry.Value)),
		zap.Time("fetched_at", entry.FetchedAt),
	)
	return c
}

func (c *Cache) expired(entry *CacheEntry) bool {
	return c.now().Sub(entry.FetchedAt) >= c.ttl
}

// Get returns the cached list when present and fresh. Never errors.
func (c *Cache) Get(key string) ([]model.LetterRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		metrics.IncrementCacheRead("miss")
		return nil, false
	}
	if c.expired(entry) {
		metrics.IncrementCacheRead("expired")
		return nil, false
	}
	metrics.IncrementCacheRead("hit")
	return entry.Value, true
}

// GetStale returns the cached list regardless of freshness. Used as the
// degraded fallback when a refresh fails.
func (c *Cache) GetStale(key string) ([]model.LetterRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// Set stores the list, stamps the fetch time, and persists it. Persistence
// failures are logged, not fatal.
func (c *Cache) Set(ctx context.Context, key string, value []model.LetterRecord) {
	entry := &CacheEntry{
		Value:     value,
		FetchedAt: c.now(),
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	if err := c.store.Save(ctx, entry); err != nil {
		c.logger.Warn("Failed to persist letter cache", zap.Error(err))
	}
}

// Invalidate drops all entries and the durable copy. Called synchronously
// after every mutating action so the next read refetches. Invalidating an
// empty cache is a no-op.
func (c *Cache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("Failed to clear durable cache", zap.Error(err))
	}
}
