package repository

import (
	"time"

	"github.com/okian/internsim/pkg/logger"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithRefreshInterval reloads the corpus periodically. Zero disables refresh.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *SnapshotStore) {
		if interval >= 0 {
			s.refreshInterval = interval
		}
	}
}

// WithLogger sets the logger used for refresh failures.
func WithLogger(l logger.Logger) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.log = l
		}
	}
}
