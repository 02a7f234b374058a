package model

import "time"

// ConfidenceLevel reflects how much market data backs a report.
type ConfidenceLevel string

const (
	ConfidenceLow      ConfidenceLevel = "Low"
	ConfidenceModerate ConfidenceLevel = "Moderate"
	ConfidenceHigh     ConfidenceLevel = "High"
)

// ScoreReport is the composed result of one simulation.
type ScoreReport struct {
	ID                    string
	UserID                string
	Role                  string
	Tier                  string
	Category              Category
	BaseReadiness         int
	DemandBoost           float64
	Readiness             int
	CompetitionIndex      int
	AcceptanceProbability int
	ConfidenceLevel       ConfidenceLevel
	MarketPercentile      int
	TopMatches            []Match
	CreatedAt             time.Time
}

// NamedCount is a label with an occurrence count.
type NamedCount struct {
	Name  string
	Count int
}

// NamedValue is a label with a numeric value.
type NamedValue struct {
	Name  string
	Value int
}

// MarketSnapshot summarizes the corpus.
type MarketSnapshot struct {
	TopSkills            []NamedCount
	TopCategories        []NamedCount
	AvgStipendByCategory []NamedValue
	RemoteRatio          int
	OnsiteRatio          int
	TotalCount           int
}
