// Package service assembles the adapters and the simulation orchestrator
// into a running service.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/internsim/internal/adapters/cache"
	"github.com/okian/internsim/internal/adapters/database"
	"github.com/okian/internsim/internal/adapters/history"
	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/adapters/mq/queue"
	"github.com/okian/internsim/internal/adapters/mq/worker"
	"github.com/okian/internsim/internal/adapters/repository"
	"github.com/okian/internsim/internal/config"
	"github.com/okian/internsim/internal/domain/matching"
	"github.com/okian/internsim/internal/domain/simulation"
	"github.com/okian/internsim/pkg/logger"
	"github.com/okian/internsim/pkg/metrics"
)

// ErrNotStarted is returned by accessors used before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the lifecycle of every runtime component.
type Service struct {
	mu  sync.RWMutex
	cfg *config.Config

	// Overrides; nil means build from config.
	loader repository.Loader
	sink   history.Sink

	activeSink history.Sink // rebuilt on each Start unless overridden

	db          *sql.DB
	redisClient *redis.Client
	store       *repository.SnapshotStore
	queue       *queue.InMemoryQueue
	pool        *worker.Pool
	orch        *simulation.Orchestrator
	auth        identity.Authenticator

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader replaces the configured corpus source.
func WithLoader(l repository.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithSink replaces the configured history sink.
func WithSink(sink history.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// New constructs a Service from cfg. Nothing is opened until Start.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{cfg: cfg, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens connections, loads the corpus and starts background workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting simulation service...")

	if err := s.openBackends(ctx); err != nil {
		s.closeBackends()
		return err
	}

	loader := s.loader
	if loader == nil {
		loader = s.corpusLoader()
	}
	s.store = repository.NewSnapshotStore(loader,
		repository.WithRefreshInterval(s.cfg.CorpusRefresh),
		repository.WithLogger(s.logger.Named("corpus")),
	)
	corpus, err := s.store.Snapshot(ctx)
	if err != nil {
		s.closeBackends()
		return fmt.Errorf("initial corpus load: %w", err)
	}
	s.store.Start(ctx)

	sink := s.sink
	if sink == nil {
		if sink, err = s.historySink(ctx); err != nil {
			_ = s.store.Close()
			s.closeBackends()
			return err
		}
	}
	s.activeSink = sink
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.HistoryQueueSize))
	s.pool = worker.NewPool(s.cfg.WorkerCount, s.queue, sink, s.logger)
	// Workers drain on Stop, so they must outlive the signal context.
	s.pool.Start(context.WithoutCancel(ctx))

	orchOpts := []simulation.Option{
		simulation.WithRecorder(history.NewRecorder(s.queue, s.logger)),
		simulation.WithLogger(s.logger.Named("simulation")),
		simulation.WithMatcher(matching.New(matching.WithLimit(s.cfg.MatchLimit))),
		simulation.WithBatchConcurrency(s.cfg.BatchConcurrency),
		simulation.WithMaxBatchSize(s.cfg.MaxBatchSize),
	}
	if s.redisClient != nil {
		orchOpts = append(orchOpts, simulation.WithMarketCache(cache.NewRedisCache(s.redisClient, s.cfg.CacheTTL)))
	}
	s.orch = simulation.New(s.store, orchOpts...)

	switch s.cfg.AuthMode {
	case config.AuthJWT:
		s.auth = identity.NewJWTAuthenticator(s.cfg.JWTSecret, s.cfg.JWTIssuer)
	default:
		s.auth = identity.HeaderAuthenticator{}
	}

	s.started = true
	s.logger.Info(ctx, "simulation service started",
		logger.String("corpus_source", s.cfg.CorpusSource),
		logger.Int("corpus_records", len(corpus.Records)),
		logger.String("corpus_version", corpus.Version),
		logger.String("history_sink", s.cfg.HistorySink),
		logger.Int("workers", s.cfg.WorkerCount),
		logger.Bool("cache", s.redisClient != nil),
	)
	return nil
}

func (s *Service) openBackends(ctx context.Context) error {
	needPostgres := s.cfg.CorpusSource == config.SourcePostgres && s.loader == nil ||
		s.cfg.HistorySink == config.SinkPostgres && s.sink == nil
	if needPostgres {
		db, err := database.OpenPostgres(ctx, database.PostgresOptions{
			DSN:          s.cfg.PostgresDSN(),
			MaxOpenConns: s.cfg.PostgresMaxConns,
		})
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		s.db = db
	}
	if s.cfg.CacheEnabled {
		client, err := database.OpenRedis(ctx, database.RedisOptions{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPassword,
			DB:       s.cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}
		s.redisClient = client
	}
	return nil
}

func (s *Service) corpusLoader() repository.Loader {
	if s.cfg.CorpusSource == config.SourcePostgres {
		return repository.NewPostgresLoader(s.db)
	}
	return repository.NewFileLoader(s.cfg.CorpusFile)
}

func (s *Service) historySink(ctx context.Context) (history.Sink, error) {
	switch s.cfg.HistorySink {
	case config.SinkPostgres:
		pg := history.NewPostgresSink(s.db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	case config.SinkLog:
		return history.NewLogSink(s.logger), nil
	default:
		return history.NewMemorySink(), nil
	}
}

func (s *Service) closeBackends() {
	if s.redisClient != nil {
		_ = s.redisClient.Close()
		s.redisClient = nil
	}
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
}

// Stop drains pending history and releases every resource.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping simulation service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "history drain incomplete", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "corpus store close failed", logger.Error(err))
	}
	s.closeBackends()

	s.started = false
	s.logger.Info(ctx, "simulation service stopped")
}

// Orchestrator returns the simulation entry point.
func (s *Service) Orchestrator() (*simulation.Orchestrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.orch, nil
}

// History returns a reader over the history sink. Write-only sinks yield
// history.ErrNotReadable.
func (s *Service) History() (history.Reader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	r, ok := s.activeSink.(history.Reader)
	if !ok {
		return nil, fmt.Errorf("%s sink: %w", s.cfg.HistorySink, history.ErrNotReadable)
	}
	return r, nil
}

// Authenticator returns the configured identity provider.
func (s *Service) Authenticator() identity.Authenticator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// Refresh reloads the corpus immediately.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return s.store.Refresh(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.cfg.WorkerCount,
		"queueCapacity": s.cfg.HistoryQueueSize,
		"corpusSource":  s.cfg.CorpusSource,
		"historySink":   s.cfg.HistorySink,
		"cacheEnabled":  s.cfg.CacheEnabled,
	}
	if !s.started {
		return stats
	}

	stats["queueLength"] = s.queue.Len()

	// A short deadline keeps /stats responsive before the first load.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if corpus, err := s.store.Snapshot(ctx); err == nil {
		stats["corpusRecords"] = len(corpus.Records)
		stats["corpusVersion"] = corpus.Version
	}

	if mem, ok := s.activeSink.(*history.MemorySink); ok {
		audits := make(map[string]int)
		for t, n := range mem.AuditCounts() {
			audits[string(t)] = n
		}
		stats["audits"] = audits
	}
	metrics.UpdateHistoryQueueSize(s.queue.Len())
	return stats
}
