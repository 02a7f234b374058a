// Package matching ranks opportunities by how well they fit a candidate.
package matching

import "strings"

// Overlap weights.
const (
	exactWeight     = 1.0
	partialWeight   = 0.7
	heuristicWeight = 0.5
)

// SkillScorer measures how much of an opportunity's tag list a candidate
// covers. Implementations return a value in [0,1].
type SkillScorer interface {
	Overlap(candidate, tags []string) float64
}

// Related is a heuristic pairing: a tag containing TagSubstring is
// partially covered by a candidate skill equal to Skill.
type Related struct {
	TagSubstring string
	Skill        string
}

// DefaultRelated pairs API work with Node and databases with SQL.
var DefaultRelated = []Related{
	{TagSubstring: "api", Skill: "node"},
	{TagSubstring: "database", Skill: "sql"},
}

// FuzzyScorer scores exact, substring and related-technology matches.
type FuzzyScorer struct {
	related []Related
}

// NewFuzzyScorer builds a FuzzyScorer. A nil related list uses DefaultRelated.
func NewFuzzyScorer(related []Related) *FuzzyScorer {
	if related == nil {
		related = DefaultRelated
	}
	return &FuzzyScorer{related: related}
}

// Overlap implements SkillScorer. Each tag earns the best applicable
// credit: 1 for an exact case-insensitive match, 0.7 when either string
// contains the other, 0.5 for a related pairing. The sum is averaged over
// the tags and capped at 1. Blank strings are ignored on both sides.
func (s *FuzzyScorer) Overlap(candidate, tags []string) float64 {
	mine := normalize(candidate)
	theirs := normalize(tags)
	if len(theirs) == 0 {
		return 0
	}

	have := make(map[string]bool, len(mine))
	for _, c := range mine {
		have[c] = true
	}

	var sum float64
	for _, tag := range theirs {
		sum += s.credit(tag, mine, have)
	}
	return min(sum/float64(len(theirs)), 1)
}

func (s *FuzzyScorer) credit(tag string, mine []string, have map[string]bool) float64 {
	if have[tag] {
		return exactWeight
	}
	for _, c := range mine {
		if strings.Contains(tag, c) || strings.Contains(c, tag) {
			return partialWeight
		}
	}
	for _, r := range s.related {
		if strings.Contains(tag, r.TagSubstring) && have[r.Skill] {
			return heuristicWeight
		}
	}
	return 0
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
