package letters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maktub/internal/model"
)

func testLetters(n int) []model.LetterRecord {
	out := make([]model.LetterRecord, n)
	for i := range out {
		out[i] = model.LetterRecord{ID: string(rune('a' + i))}
	}
	return out
}

// memStore is an in-memory DurableStore for tests.
type memStore struct {
	entry   *CacheEntry
	loadErr error
	saveErr error
	clears  int
}

func (m *memStore) Load(ctx context.Context) (*CacheEntry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.entry, nil
}

func (m *memStore) Save(ctx context.Context, e *CacheEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entry = e
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.clears++
	m.entry = nil
	return nil
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	c := NewCache(context.Background(), 5*time.Minute, NopStore{}, zap.NewNop())

	_, ok := c.Get(DefaultCacheKey)
	assert.False(t, ok)

	want := testLetters(3)
	c.Set(context.Background(), DefaultCacheKey, want)

	got, ok := c.Get(DefaultCacheKey)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCacheExpiryBoundary(t *testing.T) {
	c := NewCache(context.Background(), 5*time.Minute, NopStore{}, zap.NewNop())

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set(context.Background(), DefaultCacheKey, testLetters(2))

	// One tick under the lifetime: still fresh.
	c.now = func() time.Time { return now.Add(5*time.Minute - time.Millisecond) }
	_, ok := c.Get(DefaultCacheKey)
	assert.True(t, ok)

	// Exactly at the lifetime: expired.
	c.now = func() time.Time { return now.Add(5 * time.Minute) }
	_, ok = c.Get(DefaultCacheKey)
	assert.False(t, ok)

	// Stale read still sees the value.
	stale, ok := c.GetStale(DefaultCacheKey)
	require.True(t, ok)
	assert.Len(t, stale, 2)
}

func TestCacheInvalidate(t *testing.T) {
	store := &memStore{}
	c := NewCache(context.Background(), 5*time.Minute, store, zap.NewNop())

	c.Set(context.Background(), DefaultCacheKey, testLetters(2))
	c.Invalidate(context.Background())

	_, ok := c.Get(DefaultCacheKey)
	assert.False(t, ok)
	_, ok = c.GetStale(DefaultCacheKey)
	assert.False(t, ok)
	assert.Nil(t, store.entry)

	// Invalidating an empty cache is a no-op, not an error.
	c.Invalidate(context.Background())
}

func TestCacheRehydrateFresh(t *testing.T) {
	store := &memStore{
		entry: &CacheEntry{
			Value:     testLetters(4),
			FetchedAt: time.Now().Add(-time.Minute),
		},
	}
	c := NewCache(context.Background(), 5*time.Minute, store, zap.NewNop())

	got, ok := c.Get(DefaultCacheKey)
	require.True(t, ok)
	assert.Len(t, got, 4)
}

func TestCacheRehydrateExpiredClearsStore(t *testing.T) {
	store := &memStore{
		entry: &CacheEntry{
			Value:     testLetters(4),
			FetchedAt: time.Now().Add(-time.Hour),
		},
	}
	c := NewCache(context.Background(), 5*time.Minute, store, zap.NewNop())

	_, ok := c.Get(DefaultCacheKey)
	assert.False(t, ok)
	_, ok = c.GetStale(DefaultCacheKey)
	assert.False(t, ok, "expired durable entry must not linger as stale state")
	assert.Equal(t, 1, store.clears)
}

func TestCacheRehydrateLoadFailure(t *testing.T) {
	store := &memStore{loadErr: errors.New("redis down")}
	c := NewCache(context.Background(), 5*time.Minute, store, zap.NewNop())

	_, ok := c.Get(DefaultCacheKey)
	assert.False(t, ok)

	// Cache still works in-memory after a failed rehydrate.
	c.Set(context.Background(), DefaultCacheKey, testLetters(1))
	got, ok := c.Get(DefaultCacheKey)
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestCacheSetSurvivesPersistFailure(t *testing.T) {
	store := &memStore{saveErr: errors.New("redis down")}
	c := NewCache(context.Background(), 5*time.Minute, store, zap.NewNop())

	c.Set(context.Background(), DefaultCacheKey, testLetters(2))

	got, ok := c.Get(DefaultCacheKey)
	require.True(t, ok)
	assert.Len(t, got, 2)
}
