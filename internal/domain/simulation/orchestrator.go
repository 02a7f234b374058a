// Package simulation composes scoring, market statistics and matching into
// the per-request readiness pipeline.
package simulation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/internsim/internal/domain/category"
	"github.com/okian/internsim/internal/domain/market"
	"github.com/okian/internsim/internal/domain/matching"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/scoring"
	"github.com/okian/internsim/pkg/logger"
	"github.com/okian/internsim/pkg/metrics"
)

// Percentile tuning. These thresholds are product heuristics, not statistics.
const (
	percentileScale          = 40
	percentileCap            = 99
	percentileFallbackCI     = 50
	highReadiness            = 80
	highReadinessFloor       = 70
	eliteReadiness           = 90
	eliteReadinessPercentile = 95

	defaultMaxBatchSize = 500
)

// CorpusSource yields the current opportunity snapshot.
type CorpusSource interface {
	Snapshot(ctx context.Context) (market.Corpus, error)
}

// Recorder accepts history entries for asynchronous persistence. Record
// must not block on the sink and never reports failure to the caller.
type Recorder interface {
	Record(ctx context.Context, entry model.HistoryEntry)
}

// MarketCache stores market snapshots keyed by corpus version.
type MarketCache interface {
	Get(ctx context.Context, version string) (model.MarketSnapshot, bool, error)
	Put(ctx context.Context, version string, snap model.MarketSnapshot) error
}

// Orchestrator runs simulations. It holds no per-request state and is safe
// for concurrent use.
type Orchestrator struct {
	corpus      CorpusSource
	classifier  *category.Classifier
	matcher     *matching.Matcher
	recorder    Recorder
	cache       MarketCache
	log         logger.Logger
	now         func() time.Time
	newID       func() string
	concurrency int
	maxBatch    int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClassifier overrides the role classifier.
func WithClassifier(c *category.Classifier) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.classifier = c
		}
	}
}

// WithMatcher overrides the opportunity matcher.
func WithMatcher(m *matching.Matcher) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.matcher = m
		}
	}
}

// WithRecorder sets where history entries go.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithMarketCache enables market snapshot caching.
func WithMarketCache(c MarketCache) Option {
	return func(o *Orchestrator) {
		o.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides report and event id generation.
func WithIDGenerator(f func() string) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.newID = f
		}
	}
}

// WithBatchConcurrency bounds parallel scoring in Batch.
func WithBatchConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMaxBatchSize caps the number of candidates per Batch call.
func WithMaxBatchSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxBatch = n
		}
	}
}

// New creates an Orchestrator reading from corpus.
func New(corpus CorpusSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		corpus:      corpus,
		classifier:  category.Default(),
		matcher:     matching.New(),
		recorder:    nopRecorder{},
		log:         logger.NewNop(),
		now:         time.Now,
		newID:       uuid.NewString,
		concurrency: runtime.NumCPU(),
		maxBatch:    defaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Simulate scores one candidate against the current market.
func (o *Orchestrator) Simulate(ctx context.Context, userID string, p model.CandidateProfile) (model.ScoreReport, error) {
	const op = "simulation.Simulate"
	start := time.Now()

	if err := Validate(p); err != nil {
		o.observe(metrics.OutcomeInvalid, start)
		return model.ScoreReport{}, fmt.Errorf("%s: %w", op, err)
	}

	corpus, err := o.load(ctx)
	if err != nil {
		o.observe(metrics.OutcomeUnavailable, start)
		return model.ScoreReport{}, fmt.Errorf("%s: %w", op, err)
	}

	report := o.score(corpus.Records, market.SkillDemandMap(corpus.Records), p, userID)

	o.recorder.Record(ctx, model.HistoryEntry{
		Report: &report,
		Audit:  o.audit(model.AuditSimulationRun, userID, simulationMetadata(report, len(report.TopMatches))),
	})

	metrics.ObserveReadiness(report.Readiness)
	o.observe(metrics.OutcomeOK, start)
	o.log.Debug(ctx, "simulation scored",
		logger.String("report_id", report.ID),
		logger.String("category", report.Category.String()),
		logger.Int("readiness", report.Readiness),
		logger.Int("competition_index", report.CompetitionIndex),
		logger.Int("acceptance", report.AcceptanceProbability),
	)
	return report, nil
}

// score runs the pure pipeline over an already-loaded snapshot.
func (o *Orchestrator) score(records []model.OpportunityRecord, demand map[string]int, p model.CandidateProfile, userID string) model.ScoreReport {
	cat := o.classifier.Classify(p.Role)
	ci := market.CompetitionIndex(records, cat)

	base := scoring.Readiness(scoring.ReadinessInput{
		SkillAvg:    p.SkillAvg,
		Projects:    p.Projects,
		Internships: p.Internships,
		CGPA:        p.CGPA,
		RoleMatch:   scoring.DefaultRoleMatch,
	})

	strong := p.StrongSkills()
	boost := market.DemandBoost(demand, strong)
	final := scoring.BoostedReadiness(base, boost)

	acceptance := scoring.MarketAcceptance(float64(final), float64(ci))

	remote := p.RemotePref
	if remote == "" {
		remote = matching.DefaultRemote
	}
	matches := o.matcher.TopMatches(records, strong, cat, remote)
	best := 0
	if len(matches) > 0 {
		best = matches[0].MatchScore
	}
	acceptance = scoring.ApplyMatchPenalty(acceptance, best)

	return model.ScoreReport{
		ID:                    o.newID(),
		UserID:                userID,
		Role:                  p.Role,
		Tier:                  p.Tier,
		Category:              cat,
		BaseReadiness:         base,
		DemandBoost:           boost,
		Readiness:             final,
		CompetitionIndex:      ci,
		AcceptanceProbability: acceptance,
		ConfidenceLevel:       market.Confidence(market.CategoryCount(records, cat)),
		MarketPercentile:      MarketPercentile(final, ci),
		TopMatches:            matches,
		CreatedAt:             o.now().UTC(),
	}
}

// MarketPercentile frames readiness against market difficulty.
func MarketPercentile(finalReadiness, competitionIndex int) int {
	ci := competitionIndex
	if ci == 0 {
		ci = percentileFallbackCI
	}
	p := min(int(math.Round(float64(finalReadiness)/float64(ci)*percentileScale)), percentileCap)
	if finalReadiness > highReadiness && p < highReadinessFloor {
		p = highReadinessFloor
	}
	if finalReadiness > eliteReadiness {
		p = eliteReadinessPercentile
	}
	return p
}

// load fetches a non-empty snapshot.
func (o *Orchestrator) load(ctx context.Context) (market.Corpus, error) {
	corpus, err := o.corpus.Snapshot(ctx)
	if err != nil {
		return market.Corpus{}, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if corpus.Empty() {
		return market.Corpus{}, fmt.Errorf("%w: corpus is empty", ErrDataUnavailable)
	}
	return corpus, nil
}

func (o *Orchestrator) audit(t model.AuditType, userID string, meta map[string]any) model.AuditEvent {
	return model.AuditEvent{
		ID:        o.newID(),
		Type:      t,
		UserID:    userID,
		Metadata:  meta,
		CreatedAt: o.now().UTC(),
	}
}

func (o *Orchestrator) observe(outcome string, start time.Time) {
	_ = metrics.RecordSimulation(outcome, float64(time.Since(start).Microseconds())/1000)
}

func simulationMetadata(r model.ScoreReport, matches int) map[string]any {
	return map[string]any{
		"baseReadiness":         r.BaseReadiness,
		"finalReadiness":        r.Readiness,
		"demandBoost":           r.DemandBoost,
		"competitionIndex":      r.CompetitionIndex,
		"acceptanceProbability": r.AcceptanceProbability,
		"confidenceLevel":       string(r.ConfidenceLevel),
		"marketPercentile":      r.MarketPercentile,
		"role":                  r.Role,
		"tier":                  r.Tier,
		"matchesCount":          matches,
	}
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, model.HistoryEntry) {}
