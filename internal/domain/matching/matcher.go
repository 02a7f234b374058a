package matching

import (
	"sort"
	"strings"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/scoring"
)

// Match score weights.
const (
	skillWeight   = 0.6
	categoryBonus = 0.3
	remoteBonus   = 0.1
	DefaultLimit  = 5
	DefaultRemote = "Remote"
)

// Option configures a Matcher.
type Option func(*Matcher)

// WithScorer swaps the skill overlap strategy.
func WithScorer(s SkillScorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.scorer = s
		}
	}
}

// WithLimit caps the number of matches returned.
func WithLimit(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.limit = n
		}
	}
}

// Matcher ranks opportunities for a candidate.
type Matcher struct {
	scorer SkillScorer
	limit  int
}

// New creates a Matcher with the fuzzy scorer and a limit of five.
func New(opts ...Option) *Matcher {
	m := &Matcher{scorer: NewFuzzyScorer(nil), limit: DefaultLimit}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score computes the 0-100 fit of one record.
func (m *Matcher) Score(rec model.OpportunityRecord, skills []string, target model.Category, remotePref string) int {
	v := skillWeight * m.scorer.Overlap(skills, rec.Skills)
	if rec.Category == target {
		v += categoryBonus
	}
	if remotePref != "" && strings.Contains(strings.ToLower(rec.RemoteMode), strings.ToLower(remotePref)) {
		v += remoteBonus
	}
	return scoring.Clamp(scoring.Round(v*100), 0, 100)
}

// TopMatches scores records in the target category plus Other and returns
// the best ones, highest first. Equal scores keep corpus order.
func (m *Matcher) TopMatches(records []model.OpportunityRecord, skills []string, target model.Category, remotePref string) []model.Match {
	var pool []model.Match
	for _, rec := range records {
		if rec.Category != target && rec.Category != model.CategoryOther {
			continue
		}
		pool = append(pool, model.Match{Record: rec, MatchScore: m.Score(rec, skills, target, remotePref)})
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].MatchScore > pool[j].MatchScore })
	if len(pool) > m.limit {
		pool = pool[:m.limit]
	}
	return pool
}
