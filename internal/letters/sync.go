package letters

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"maktub/pkg/metrics"
)

// DefaultSyncInterval is how often the background sync re-fetches the
// authoritative letter list.
const DefaultSyncInterval = 10 * time.Minute

// Notifier surfaces "N new letters" events from the background sync. The
// default is a no-op; the gateway wires an MQ-backed implementation.
type Notifier interface {
	NotifyNewLetters(ctx context.Context, previousCount, newCount int)
}

// NopNotifier drops notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyNewLetters(ctx context.Context, previousCount, newCount int) {}

// Syncer periodically force-refreshes the letter list. When the new count
// differs from the cached count it emits exactly one notification; the
// refreshed list has already replaced the cache by then (last write wins).
type Syncer struct {
	service  *Service
	interval time.Duration
	notifier Notifier
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSyncer(service *Service, interval time.Duration, notifier Notifier, logger *zap.Logger) *Syncer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Syncer{
		service:  service,
		interval: interval,
		notifier: notifier,
		logger:   logger,
	}
}

// Start launches the sync loop. Calling Start on a running syncer is a
// no-op.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.logger.Info("Background letter sync started",
		zap.Duration("interval", s.interval),
	)

	go s.run(runCtx)
}

// Stop halts the sync loop. Calling Stop on a stopped syncer is a no-op.
// Must be called on teardown so the ticker goroutine does not leak.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil

	s.logger.Info("Background letter sync stopped")
}

func (s *Syncer) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SyncOnce(ctx)
		}
	}
}

// SyncOnce performs a single forced refresh and fires the notifier when the
// count changed. Fetch failures leave the cache alone.
func (s *Syncer) SyncOnce(ctx context.Context) {
	previousCount, hadCache := s.service.CachedCount()

	refreshed := s.service.LoadLetters(ctx, true)

	switch s.service.State() {
	case StateStaleFallback, StateEmptyOnFailure:
		metrics.IncrementSyncRun("failed")
		return
	}

	if !hadCache || len(refreshed) == previousCount {
		metrics.IncrementSyncRun("unchanged")
		return
	}

	metrics.IncrementSyncRun("changed")
	s.logger.Info("Letter count changed during background sync",
		zap.Int("previous", previousCount),
		zap.Int("current", len(refreshed)),
	)
	s.notifier.NotifyNewLetters(ctx, previousCount, len(refreshed))
}
