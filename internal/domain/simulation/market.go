package simulation

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/internsim/internal/domain/category"
	"github.com/okian/internsim/internal/domain/market"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/pkg/logger"
	"github.com/okian/internsim/pkg/metrics"
)

// Market returns the corpus summary, served from the cache when the corpus
// version has not changed. An empty corpus yields ErrNoData.
func (o *Orchestrator) Market(ctx context.Context) (model.MarketSnapshot, error) {
	const op = "simulation.Market"

	corpus, err := o.corpus.Snapshot(ctx)
	if err != nil {
		return model.MarketSnapshot{}, fmt.Errorf("%s: %w: %w", op, ErrDataUnavailable, err)
	}
	if corpus.Empty() {
		return model.MarketSnapshot{}, fmt.Errorf("%s: %w", op, ErrNoData)
	}

	if o.cache != nil {
		snap, ok, err := o.cache.Get(ctx, corpus.Version)
		switch {
		case err != nil:
			metrics.RecordMarketCache(metrics.CacheError)
			o.log.Warn(ctx, "market cache read failed", logger.Error(err))
		case ok:
			metrics.RecordMarketCache(metrics.CacheHit)
			return snap, nil
		default:
			metrics.RecordMarketCache(metrics.CacheMiss)
		}
	}

	snap, ok := market.Snapshot(corpus.Records)
	if !ok {
		return model.MarketSnapshot{}, fmt.Errorf("%s: %w", op, ErrNoData)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, corpus.Version, snap); err != nil {
			o.log.Warn(ctx, "market cache write failed", logger.Error(err))
		}
	}
	return snap, nil
}

// Opportunities lists corpus records, optionally narrowed to one category.
// A category outside the taxonomy is a validation error.
func (o *Orchestrator) Opportunities(ctx context.Context, cat string) ([]model.OpportunityRecord, error) {
	const op = "simulation.Opportunities"

	corpus, err := o.corpus.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDataUnavailable, err)
	}
	if strings.TrimSpace(cat) == "" {
		return corpus.Records, nil
	}
	c, ok := model.LookupCategory(cat)
	if !ok {
		return nil, fmt.Errorf("%s: %w: unknown category %q", op, ErrValidation, cat)
	}
	return market.InCategory(corpus.Records, c), nil
}

// Roles returns the curated target roles, sorted.
func (o *Orchestrator) Roles() []string {
	out := make([]string, len(category.Roles))
	copy(out, category.Roles)
	return out
}
