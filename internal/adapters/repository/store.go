// Package repository provides read access to the opportunity corpus.
package repository

import (
	"context"

	"github.com/okian/internsim/internal/domain/market"
	"github.com/okian/internsim/internal/domain/model"
)

// Store serves consistent snapshots of the opportunity corpus.
type Store interface {
	// Snapshot returns the current corpus. The returned records must not be mutated.
	Snapshot(ctx context.Context) (market.Corpus, error)
}

// Loader reads the full record set from a backing source.
type Loader interface {
	Load(ctx context.Context) ([]model.OpportunityRecord, error)
}
