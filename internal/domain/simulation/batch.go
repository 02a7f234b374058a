package simulation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/internsim/internal/domain/market"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/pkg/logger"
	"github.com/okian/internsim/pkg/metrics"
)

// BatchResult is one candidate's outcome. Exactly one of Report and Err is set.
type BatchResult struct {
	Index  int
	Report *model.ScoreReport
	Err    error
}

// Batch scores many candidates against one shared snapshot. Invalid
// candidates fail individually; corpus problems fail the whole batch.
func (o *Orchestrator) Batch(ctx context.Context, userID string, profiles []model.CandidateProfile) ([]BatchResult, error) {
	const op = "simulation.Batch"

	switch {
	case len(profiles) == 0:
		return nil, fmt.Errorf("%s: %w: no candidates", op, ErrValidation)
	case len(profiles) > o.maxBatch:
		return nil, fmt.Errorf("%s: %w: at most %d candidates per batch", op, ErrValidation, o.maxBatch)
	}

	corpus, err := o.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.ObserveBatchSize(len(profiles))

	// Read-only from here on; every goroutine writes only its own slot.
	demand := market.SkillDemandMap(corpus.Records)
	results := make([]BatchResult, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, p := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i].Index = i
			if err := Validate(p); err != nil {
				results[i].Err = err
				o.observe(metrics.OutcomeInvalid, start)
				return nil
			}
			report := o.score(corpus.Records, demand, p, userID)
			results[i].Report = &report
			metrics.ObserveReadiness(report.Readiness)
			o.observe(metrics.OutcomeOK, start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	scored := 0
	for _, r := range results {
		if r.Report != nil {
			scored++
		}
	}
	o.recorder.Record(ctx, model.HistoryEntry{
		Audit: o.audit(model.AuditBulkSimulation, userID, map[string]any{
			"totalStudents": len(profiles),
			"scored":        scored,
		}),
	})
	o.log.Info(ctx, "batch scored",
		logger.Int("total", len(profiles)),
		logger.Int("scored", scored),
	)
	return results, nil
}
