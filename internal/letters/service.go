package letters

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"maktub/internal/model"
)

// Fetcher reads the authoritative letter list from the remote data store.
type Fetcher interface {
	FetchLetters(ctx context.Context) ([]model.LetterRecord, error)
}

// LoadState tracks the outcome of the most recent read.
type LoadState int

const (
	StateEmpty LoadState = iota
	StateLoading
	StateHydrated
	StateStaleFallback
	StateEmptyOnFailure
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHydrated:
		return "hydrated"
	case StateStaleFallback:
		return "stale_fallback"
	case StateEmptyOnFailure:
		return "empty_on_failure"
	default:
		return "empty"
	}
}

// Service is the read side of the letter-history view: cache-first loads
// with a stale-over-empty fallback when the store is unreachable.
type Service struct {
	cache   *Cache
	fetcher Fetcher
	logger  *zap.Logger
	rewarm  *Debouncer

	mu    sync.Mutex
	state LoadState
}

func NewService(cache *Cache, fetcher Fetcher, logger *zap.Logger) *Service {
	return &Service{
		cache:   cache,
		fetcher: fetcher,
		logger:  logger,
		rewarm:  NewDebouncer(DefaultDebounceDelay),
		state:   StateEmpty,
	}
}

// LoadLetters returns the letter list. Unless forced, a fresh cache entry is
// served directly. On a fetch failure the cached value, even expired, is
// returned as a degraded fallback; with no cached value at all the result is
// an empty list. Callers never see an error: availability wins over
// freshness here, and the worst case is a stale or empty table.
func (s *Service) LoadLetters(ctx context.Context, forceRefresh bool) []model.LetterRecord {
	if !forceRefresh {
		if cached, ok := s.cache.Get(DefaultCacheKey); ok {
			s.setState(StateHydrated)
			return cached
		}
	}

	s.setState(StateLoading)

	fetched, err := s.fetcher.FetchLetters(ctx)
	if err != nil {
		if stale, ok := s.cache.GetStale(DefaultCacheKey); ok {
			s.logger.Warn("Letter fetch failed, serving stale cache",
				zap.Int("letters", len(stale)),
				zap.Error(err),
			)
			s.setState(StateStaleFallback)
			return stale
		}

		s.logger.Error("Letter fetch failed with no cached fallback", zap.Error(err))
		s.setState(StateEmptyOnFailure)
		return []model.LetterRecord{}
	}

	s.cache.Set(ctx, DefaultCacheKey, fetched)
	s.setState(StateHydrated)
	return fetched
}

// InvalidateAfterWrite drops the cache synchronously so the next read is
// guaranteed to bypass it, then schedules a debounced re-warm: a burst
// of writes coalesces into a single refetch after the quiet window, and
// the re-warm skips entirely when a read already repopulated the cache.
// A background sync started before this call may still repopulate stale
// data afterwards; the cache is best-effort, not authoritative.
func (s *Service) InvalidateAfterWrite(ctx context.Context) {
	s.cache.Invalidate(ctx)

	s.rewarm.Do(func() {
		if _, ok := s.cache.Get(DefaultCacheKey); ok {
			return
		}
		// request context is gone by the time the timer fires
		s.LoadLetters(context.Background(), false)
	})
}

// CachedCount reports how many letters the cache currently holds,
// regardless of freshness.
func (s *Service) CachedCount() (int, bool) {
	cached, ok := s.cache.GetStale(DefaultCacheKey)
	if !ok {
		return 0, false
	}
	return len(cached), true
}

// State returns the outcome of the most recent read.
func (s *Service) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(state LoadState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
