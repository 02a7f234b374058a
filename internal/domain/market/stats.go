package market

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/internsim/internal/domain/model"
)

const (
	// BaselineCompetition is returned for categories with no records.
	BaselineCompetition = 40
	maxCompetition      = 95

	stipendScale  = 500
	maxBoost      = 15
	boostDivisor  = 50
	topSkillLimit = 15

	highConfidenceCount     = 50
	moderateConfidenceCount = 15
)

// CompetitionIndex estimates how contested a category is, in [0,95].
func CompetitionIndex(records []model.OpportunityRecord, category model.Category) int {
	var (
		count       int
		stipendSum  float64
		remoteCount int
	)
	for _, r := range records {
		if r.Category != category {
			continue
		}
		count++
		stipendSum += r.MidStipend()
		if IsRemote(r) {
			remoteCount++
		}
	}
	if count == 0 {
		return BaselineCompetition
	}

	volume := math.Min(float64(count)*2, 100)
	stipend := math.Min(stipendSum/float64(count)/stipendScale, 100)
	remote := float64(remoteCount) / float64(count) * 100

	ci := int(math.Round(0.4*volume + 0.3*stipend + 0.3*remote))
	return min(ci, maxCompetition)
}

// SkillDemandMap counts skill tags across records, keyed by lowercased trimmed tag.
func SkillDemandMap(records []model.OpportunityRecord) map[string]int {
	demand := make(map[string]int)
	for _, r := range records {
		for _, s := range r.Skills {
			key := strings.ToLower(strings.TrimSpace(s))
			if key != "" {
				demand[key]++
			}
		}
	}
	return demand
}

// DemandBoost rewards strong skills the market asks for, capped at 15.
func DemandBoost(demand map[string]int, strongSkills []string) float64 {
	total := 0
	for _, s := range strongSkills {
		total += demand[strings.ToLower(strings.TrimSpace(s))]
	}
	return math.Min(float64(total)/boostDivisor, maxBoost)
}

// Confidence grades how much data backs a category.
func Confidence(categoryCount int) model.ConfidenceLevel {
	switch {
	case categoryCount > highConfidenceCount:
		return model.ConfidenceHigh
	case categoryCount > moderateConfidenceCount:
		return model.ConfidenceModerate
	default:
		return model.ConfidenceLow
	}
}

// Snapshot summarizes the corpus. ok is false when there is no data.
func Snapshot(records []model.OpportunityRecord) (snap model.MarketSnapshot, ok bool) {
	total := len(records)
	if total == 0 {
		return model.MarketSnapshot{}, false
	}

	skills := newCounter()
	categories := newCounter()
	stipendSum := make(map[string]float64)
	remote := 0

	for _, r := range records {
		for _, s := range r.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills.add(s)
			}
		}
		cat := string(r.Category)
		categories.add(cat)
		stipendSum[cat] += r.MidStipend()
		if IsRemote(r) {
			remote++
		}
	}

	topSkills := skills.sorted()
	if len(topSkills) > topSkillLimit {
		topSkills = topSkills[:topSkillLimit]
	}
	topCategories := categories.sorted()

	stipends := make([]model.NamedValue, 0, len(topCategories))
	for _, name := range categories.order {
		avg := stipendSum[name] / float64(categories.counts[name])
		stipends = append(stipends, model.NamedValue{Name: name, Value: int(math.Round(avg))})
	}
	sort.SliceStable(stipends, func(i, j int) bool { return stipends[i].Value > stipends[j].Value })

	return model.MarketSnapshot{
		TopSkills:            topSkills,
		TopCategories:        topCategories,
		AvgStipendByCategory: stipends,
		RemoteRatio:          int(math.Round(float64(remote) / float64(total) * 100)),
		OnsiteRatio:          int(math.Round(float64(total-remote) / float64(total) * 100)),
		TotalCount:           total,
	}, true
}

// counter counts labels and remembers first-seen order for stable ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) sorted() []model.NamedCount {
	out := make([]model.NamedCount, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, model.NamedCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
