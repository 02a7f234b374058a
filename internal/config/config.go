// Package config defines service configuration structures and loading hooks.
//
// Keys are flat snake_case so every field maps 1:1 to an INTERNSIM_ env var.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Corpus sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// History sinks.
const (
	SinkMemory   = "memory"
	SinkLog      = "log"
	SinkPostgres = "postgres"
)

// Identity modes.
const (
	AuthJWT    = "jwt"
	AuthHeader = "header"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects "text" or "json" output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CorpusSource selects where opportunity records come from: file or postgres.
	CorpusSource string `koanf:"corpus_source"`
	// CorpusFile is the JSON corpus path used when CorpusSource is "file".
	CorpusFile string `koanf:"corpus_file"`
	// CorpusRefresh reloads the corpus on this interval. Zero disables refresh.
	CorpusRefresh time.Duration `koanf:"corpus_refresh"`

	PostgresHost     string `koanf:"postgres_host"`
	PostgresPort     int    `koanf:"postgres_port"`
	PostgresUser     string `koanf:"postgres_user"`
	PostgresPassword string `koanf:"postgres_password"`
	PostgresDatabase string `koanf:"postgres_database"`
	PostgresSSLMode  string `koanf:"postgres_sslmode"`
	PostgresMaxConns int    `koanf:"postgres_max_conns"`

	// CacheEnabled turns on the Redis market snapshot cache.
	CacheEnabled  bool          `koanf:"cache_enabled"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`

	// HistorySink selects where reports and audit events go: memory, log or postgres.
	HistorySink string `koanf:"history_sink"`
	// HistoryQueueSize bounds the async persistence queue.
	HistoryQueueSize int `koanf:"history_queue_size"`
	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// AuthMode selects the caller identity provider: jwt or header.
	AuthMode  string `koanf:"auth_mode"`
	JWTSecret string `koanf:"jwt_secret"`
	JWTIssuer string `koanf:"jwt_issuer"`
	// AdminUsers may read the operator overview at /admin/overview.
	AdminUsers []string `koanf:"admin_users"`

	// BatchConcurrency bounds parallel scoring in batch simulations.
	BatchConcurrency int `koanf:"batch_concurrency"`
	// MaxBatchSize caps the number of candidates per batch request.
	MaxBatchSize int `koanf:"max_batch_size"`
	// MatchLimit caps the number of ranked matches per report.
	MatchLimit int `koanf:"match_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		CorpusSource:     SourceFile,
		CorpusFile:       "data/opportunities.json",
		CorpusRefresh:    time.Minute,
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "internsim",
		PostgresDatabase: "internsim",
		PostgresSSLMode:  "disable",
		PostgresMaxConns: 10,
		RedisAddr:        "localhost:6379",
		CacheTTL:         5 * time.Minute,
		HistorySink:      SinkMemory,
		HistoryQueueSize: 10_000,
		WorkerCount:      runtime.NumCPU(),
		AuthMode:         AuthHeader,
		JWTIssuer:        "internsim",
		BatchConcurrency: runtime.NumCPU() * 2,
		MaxBatchSize:     500,
		MatchLimit:       5,
	}
}

// PostgresDSN renders the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode)
}

// Validate checks cross-field constraints.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CorpusSource != SourceFile && c.CorpusSource != SourcePostgres:
		return fmt.Errorf("%w: %w: unknown corpus_source %q", ErrInvalidConfig, ErrUnsupportedBackend, c.CorpusSource)
	case c.CorpusSource == SourceFile && c.CorpusFile == "":
		return fmt.Errorf("%w: corpus_file must not be empty", ErrInvalidConfig)
	case c.HistorySink != SinkMemory && c.HistorySink != SinkLog && c.HistorySink != SinkPostgres:
		return fmt.Errorf("%w: %w: unknown history_sink %q", ErrInvalidConfig, ErrUnsupportedBackend, c.HistorySink)
	case c.AuthMode != AuthJWT && c.AuthMode != AuthHeader:
		return fmt.Errorf("%w: %w: unknown auth_mode %q", ErrInvalidConfig, ErrUnsupportedBackend, c.AuthMode)
	case c.AuthMode == AuthJWT && c.JWTSecret == "":
		return fmt.Errorf("%w: jwt_secret is required when auth_mode is jwt", ErrInvalidConfig)
	case c.CorpusRefresh < 0:
		return fmt.Errorf("%w: corpus_refresh must not be negative", ErrInvalidConfig)
	case c.HistoryQueueSize <= 0:
		return fmt.Errorf("%w: history_queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.BatchConcurrency <= 0:
		return fmt.Errorf("%w: batch_concurrency must be positive", ErrInvalidConfig)
	case c.MatchLimit <= 0:
		return fmt.Errorf("%w: match_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
