package loadgen

import (
	"fmt"

	"github.com/okian/internsim/internal/domain/types"
)

// Ranges every report must respect.
const (
	maxScore           = 100
	minAcceptance      = 5
	maxAcceptance      = 95
	maxPercentile      = 99
	maxReportedMatches = 5
)

// verifyReport checks that a report's scores fall inside their ranges.
func verifyReport(r types.SimulateResponse) error {
	switch {
	case r.ID == "":
		return fmt.Errorf("report without id")
	case r.Readiness < 0 || r.Readiness > maxScore:
		return fmt.Errorf("readiness %d out of range", r.Readiness)
	case r.CompetitionIndex < 0 || r.CompetitionIndex > maxScore:
		return fmt.Errorf("competition index %d out of range", r.CompetitionIndex)
	case r.AcceptanceProbability < minAcceptance || r.AcceptanceProbability > maxAcceptance:
		return fmt.Errorf("acceptance probability %d out of range", r.AcceptanceProbability)
	case r.MarketPercentile < 0 || r.MarketPercentile > maxPercentile:
		return fmt.Errorf("market percentile %d out of range", r.MarketPercentile)
	case len(r.TopMatches) > maxReportedMatches:
		return fmt.Errorf("%d matches reported", len(r.TopMatches))
	}
	for _, m := range r.TopMatches {
		if m.MatchScore < 0 || m.MatchScore > maxScore {
			return fmt.Errorf("match score %d out of range for %s", m.MatchScore, m.ID)
		}
	}
	return nil
}
