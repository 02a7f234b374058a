package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/internsim/internal/domain/market"
	"github.com/okian/internsim/pkg/logger"
	"github.com/okian/internsim/pkg/metrics"
)

// SnapshotStore keeps the last loaded corpus behind an atomic pointer so
// readers never block on a reload. Each published corpus is immutable.
type SnapshotStore struct {
	loader          Loader
	refreshInterval time.Duration
	log             logger.Logger

	mu       sync.Mutex // serializes loads
	snapshot atomic.Pointer[market.Corpus]

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSnapshotStore wraps loader. Call Start to enable periodic refresh.
func NewSnapshotStore(loader Loader, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		loader:   loader,
		log:      logger.NewNop(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot implements Store. The first call loads synchronously; later
// calls return the last published corpus.
func (s *SnapshotStore) Snapshot(ctx context.Context) (market.Corpus, error) {
	if c := s.snapshot.Load(); c != nil {
		return *c, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.snapshot.Load(); c != nil {
		return *c, nil
	}
	return s.reloadLocked(ctx)
}

// Refresh reloads the corpus and publishes it.
func (s *SnapshotStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.reloadLocked(ctx)
	return err
}

func (s *SnapshotStore) reloadLocked(ctx context.Context) (market.Corpus, error) {
	start := time.Now()
	records, err := s.loader.Load(ctx)
	if err != nil {
		metrics.RecordCorpusLoadError()
		return market.Corpus{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	c := market.NewCorpus(records)
	s.snapshot.Store(&c)
	metrics.RecordCorpusLoad(float64(time.Since(start).Microseconds())/1000, len(records))
	return c, nil
}

// Start begins periodic refresh when an interval is configured.
func (s *SnapshotStore) Start(ctx context.Context) {
	if s.refreshInterval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					// Keep serving the previous snapshot.
					s.log.Warn(ctx, "corpus refresh failed", logger.Error(err))
				}
			}
		}
	}()
}

// Close stops the refresh goroutine.
func (s *SnapshotStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}
