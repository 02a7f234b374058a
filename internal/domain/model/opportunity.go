package model

// OpportunityRecord is one normalized listing from the corpus.
type OpportunityRecord struct {
	ID             string
	Company        string
	Role           string
	Category       Category
	Location       string
	RemoteMode     string
	StipendMin     int // monthly
	StipendMax     int // monthly
	DurationMonths int
	Skills         []string
}

// MidStipend is the monthly stipend midpoint.
func (r OpportunityRecord) MidStipend() float64 {
	return float64(r.StipendMin+r.StipendMax) / 2
}

// Match is an opportunity paired with its fit score.
type Match struct {
	Record     OpportunityRecord
	MatchScore int // 0-100
}
