package letters

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maktub/internal/model"
)

// fakeFetcher serves canned responses and counts calls.
type fakeFetcher struct {
	letters []model.LetterRecord
	err     error
	calls   int
}

func (f *fakeFetcher) FetchLetters(ctx context.Context) ([]model.LetterRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.letters, nil
}

func newTestService(fetcher *fakeFetcher) (*Service, *Cache) {
	cache := NewCache(context.Background(), 5*time.Minute, NopStore{}, zap.NewNop())
	return NewService(cache, fetcher, zap.NewNop()), cache
}

func TestLoadLettersFetchesThenServesCache(t *testing.T) {
	fetcher := &fakeFetcher{letters: testLetters(3)}
	svc, _ := newTestService(fetcher)

	got := svc.LoadLetters(context.Background(), false)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, StateHydrated, svc.State())

	// Second read within the cache lifetime does not hit the store.
	got = svc.LoadLetters(context.Background(), false)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, fetcher.calls)
}

func TestLoadLettersForceRefreshBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{letters: testLetters(3)}
	svc, _ := newTestService(fetcher)

	svc.LoadLetters(context.Background(), false)
	svc.LoadLetters(context.Background(), true)
	assert.Equal(t, 2, fetcher.calls)
}

func TestLoadLettersStaleOverEmpty(t *testing.T) {
	fetcher := &fakeFetcher{letters: testLetters(3)}
	svc, cache := newTestService(fetcher)

	svc.LoadLetters(context.Background(), false)

	// Expire the cache, then break the fetcher. The expired copy must
	// still be served rather than an empty list.
	cache.now = func() time.Time { return time.Now().Add(time.Hour) }
	fetcher.err = errors.New("store unreachable")

	got := svc.LoadLetters(context.Background(), false)
	assert.Len(t, got, 3)
	assert.Equal(t, StateStaleFallback, svc.State())
}

func TestLoadLettersEmptyOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("store unreachable")}
	svc, _ := newTestService(fetcher)

	got := svc.LoadLetters(context.Background(), false)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, StateEmptyOnFailure, svc.State())
}

func TestInvalidateAfterWriteForcesRefetch(t *testing.T) {
	fetcher := &fakeFetcher{letters: testLetters(3)}
	svc, _ := newTestService(fetcher)

	svc.LoadLetters(context.Background(), false)
	require.Equal(t, 1, fetcher.calls)

	// A write happened elsewhere: invalidate, then the next read must
	// hit the store even though the TTL has not elapsed.
	svc.InvalidateAfterWrite(context.Background())
	fetcher.letters = testLetters(4)

	got := svc.LoadLetters(context.Background(), false)
	assert.Equal(t, 2, fetcher.calls)
	assert.Len(t, got, 4)
}

// countingFetcher is safe to read while the re-warm goroutine fetches.
type countingFetcher struct {
	mu      sync.Mutex
	letters []model.LetterRecord
	calls   int
}

func (f *countingFetcher) FetchLetters(ctx context.Context) ([]model.LetterRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.letters, nil
}

func (f *countingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestInvalidateAfterWriteRewarmCoalesces(t *testing.T) {
	fetcher := &countingFetcher{letters: testLetters(3)}
	cache := NewCache(context.Background(), 5*time.Minute, NopStore{}, zap.NewNop())
	svc := NewService(cache, fetcher, zap.NewNop())
	svc.rewarm = NewDebouncer(5 * time.Millisecond)

	svc.LoadLetters(context.Background(), false)
	require.Equal(t, 1, fetcher.callCount())

	// A burst of writes must coalesce into one background refetch.
	for i := 0; i < 3; i++ {
		svc.InvalidateAfterWrite(context.Background())
	}

	require.Eventually(t, func() bool {
		_, warm := cache.Get(DefaultCacheKey)
		return warm && fetcher.callCount() == 2
	}, time.Second, 5*time.Millisecond)

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestInvalidateAfterWriteRewarmSkipsWarmCache(t *testing.T) {
	fetcher := &countingFetcher{letters: testLetters(3)}
	cache := NewCache(context.Background(), 5*time.Minute, NopStore{}, zap.NewNop())
	svc := NewService(cache, fetcher, zap.NewNop())
	svc.rewarm = NewDebouncer(10 * time.Millisecond)

	svc.LoadLetters(context.Background(), false)
	svc.InvalidateAfterWrite(context.Background())

	// A read repopulates the cache before the quiet window ends, so the
	// scheduled re-warm must not fetch again.
	svc.LoadLetters(context.Background(), false)
	require.Equal(t, 2, fetcher.callCount())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestCachedCount(t *testing.T) {
	fetcher := &fakeFetcher{letters: testLetters(3)}
	svc, cache := newTestService(fetcher)

	_, ok := svc.CachedCount()
	assert.False(t, ok)

	svc.LoadLetters(context.Background(), false)
	count, ok := svc.CachedCount()
	require.True(t, ok)
	assert.Equal(t, 3, count)

	// Count sees expired entries too.
	cache.now = func() time.Time { return time.Now().Add(time.Hour) }
	count, ok = svc.CachedCount()
	require.True(t, ok)
	assert.Equal(t, 3, count)
}
