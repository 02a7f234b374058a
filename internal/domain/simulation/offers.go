package simulation

import (
	"context"
	"fmt"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/scoring"
	"github.com/okian/internsim/pkg/metrics"
)

// OfferInput rates an offer's growth factors on a 1-5 scale.
type OfferInput = scoring.GrowthInput

// OfferComparison holds the growth index of two offers.
type OfferComparison struct {
	GrowthA int
	GrowthB int
}

// CompareOffers computes growth indexes for two offers. userID may be empty.
func (o *Orchestrator) CompareOffers(ctx context.Context, userID string, a, b OfferInput) (OfferComparison, error) {
	const op = "simulation.CompareOffers"
	if err := validateOffer("offerA", a); err != nil {
		return OfferComparison{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateOffer("offerB", b); err != nil {
		return OfferComparison{}, fmt.Errorf("%s: %w", op, err)
	}

	res := OfferComparison{GrowthA: scoring.GrowthIndex(a), GrowthB: scoring.GrowthIndex(b)}

	o.recorder.Record(ctx, model.HistoryEntry{
		Audit: o.audit(model.AuditOfferCompare, userID, map[string]any{
			"growthA": res.GrowthA,
			"growthB": res.GrowthB,
		}),
	})
	metrics.RecordOfferComparison()
	return res, nil
}
