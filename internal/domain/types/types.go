// Package types contains the JSON wire shapes shared by the HTTP API and the CLI.
package types

import (
	"math"
	"time"

	"github.com/okian/internsim/internal/domain/model"
)

// SimulateRequest is the body of POST /simulate. Skill levels use the
// camelCase keys of model.CanonicalSkills.
type SimulateRequest struct {
	SkillAvg    *float64 `json:"skillAvg"`
	Projects    int      `json:"projects"`
	Internships int      `json:"internships"`
	CGPA        float64  `json:"cgpa"`
	Role        string   `json:"role"`
	Tier        string   `json:"tier"`
	RemoteType  string   `json:"remoteType,omitempty"`

	DSA          int `json:"dsa"`
	Algorithms   int `json:"algorithms"`
	SystemDesign int `json:"systemDesign"`
	React        int `json:"react"`
	Node         int `json:"node"`
	Python       int `json:"python"`
	SQL          int `json:"sql"`
	ML           int `json:"ml"`
	DataAnalysis int `json:"dataAnalysis"`
	Embedded     int `json:"embedded"`
}

// SkillLevels returns the canonical skill map of the request.
func (r SimulateRequest) SkillLevels() map[string]int {
	return map[string]int{
		"DSA":           r.DSA,
		"Algorithms":    r.Algorithms,
		"System Design": r.SystemDesign,
		"React":         r.React,
		"Node":          r.Node,
		"Python":        r.Python,
		"SQL":           r.SQL,
		"ML":            r.ML,
		"Data Analysis": r.DataAnalysis,
		"Embedded":      r.Embedded,
	}
}

// BatchRequest is the body of POST /simulate/batch.
type BatchRequest struct {
	Candidates []SimulateRequest `json:"candidates"`
}

// Opportunity is the wire form of model.OpportunityRecord.
type Opportunity struct {
	ID             string   `json:"id"`
	Company        string   `json:"company"`
	Role           string   `json:"role"`
	Category       string   `json:"category"`
	Location       string   `json:"location"`
	RemoteMode     string   `json:"remoteMode"`
	StipendMin     int      `json:"stipendMin"`
	StipendMax     int      `json:"stipendMax"`
	DurationMonths int      `json:"durationMonths"`
	Skills         []string `json:"skills"`
}

// MatchEntry is a ranked opportunity in a report.
type MatchEntry struct {
	Opportunity
	MatchScore int `json:"matchScore"`
}

// SimulateResponse is the wire form of model.ScoreReport.
type SimulateResponse struct {
	ID                    string       `json:"id"`
	Category              string       `json:"category"`
	Readiness             int          `json:"readiness"`
	CompetitionIndex      int          `json:"competitionIndex"`
	AcceptanceProbability int          `json:"acceptanceProbability"`
	ConfidenceLevel       string       `json:"confidenceLevel"`
	MarketPercentile      int          `json:"marketPercentile"`
	TopMatches            []MatchEntry `json:"topMatches"`
	CreatedAt             time.Time    `json:"createdAt"`
}

// BatchItem is one candidate's outcome in a batch.
type BatchItem struct {
	Index  int               `json:"index"`
	Report *SimulateResponse `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// BatchResponse is the body returned by POST /simulate/batch.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// Offer describes an offer's growth factors, each on a 1-5 scale.
type Offer struct {
	Learning  int `json:"learning"`
	Brand     int `json:"brand"`
	TechStack int `json:"techStack"`
	Network   int `json:"network"`
}

// CompareRequest is the body of POST /offers/compare.
type CompareRequest struct {
	OfferA Offer `json:"offerA"`
	OfferB Offer `json:"offerB"`
}

// CompareResponse carries both growth indexes.
type CompareResponse struct {
	GrowthA int `json:"growthA"`
	GrowthB int `json:"growthB"`
}

// SkillCount is a skill tag frequency.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CategoryCount is a category frequency.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryStipend is the mean monthly stipend of a category.
type CategoryStipend struct {
	Category   string `json:"category"`
	AvgStipend int    `json:"avgStipend"`
}

// MarketResponse is the body of GET /market.
type MarketResponse struct {
	TopSkills            []SkillCount      `json:"topSkills"`
	TopCategories        []CategoryCount   `json:"topCategories"`
	AvgStipendByCategory []CategoryStipend `json:"avgStipendByCategory"`
	RemoteRatio          int               `json:"remoteRatio"`
	OnsiteRatio          int               `json:"onsiteRatio"`
	TotalCount           int               `json:"totalCount"`
}

// ToProfile converts a request into a domain profile. A missing skillAvg
// becomes NaN, which validation rejects.
func (r SimulateRequest) ToProfile() model.CandidateProfile {
	p := model.CandidateProfile{
		Skills:      r.SkillLevels(),
		Projects:    r.Projects,
		Internships: r.Internships,
		CGPA:        r.CGPA,
		Role:        r.Role,
		Tier:        r.Tier,
		RemotePref:  r.RemoteType,
	}
	p.SkillAvg = math.NaN()
	if r.SkillAvg != nil {
		p.SkillAvg = *r.SkillAvg
	}
	return p
}

// FromRecord converts a domain record into its wire form.
func FromRecord(rec model.OpportunityRecord) Opportunity {
	skills := rec.Skills
	if skills == nil {
		skills = []string{}
	}
	return Opportunity{
		ID:             rec.ID,
		Company:        rec.Company,
		Role:           rec.Role,
		Category:       string(rec.Category),
		Location:       rec.Location,
		RemoteMode:     rec.RemoteMode,
		StipendMin:     rec.StipendMin,
		StipendMax:     rec.StipendMax,
		DurationMonths: rec.DurationMonths,
		Skills:         skills,
	}
}

// ToRecord converts the wire form into a domain record.
func (o Opportunity) ToRecord() model.OpportunityRecord {
	return model.OpportunityRecord{
		ID:             o.ID,
		Company:        o.Company,
		Role:           o.Role,
		Category:       model.ParseCategory(o.Category),
		Location:       o.Location,
		RemoteMode:     o.RemoteMode,
		StipendMin:     o.StipendMin,
		StipendMax:     o.StipendMax,
		DurationMonths: o.DurationMonths,
		Skills:         o.Skills,
	}
}

// FromReport converts a report into its wire form.
func FromReport(r model.ScoreReport) SimulateResponse {
	matches := make([]MatchEntry, 0, len(r.TopMatches))
	for _, m := range r.TopMatches {
		matches = append(matches, MatchEntry{Opportunity: FromRecord(m.Record), MatchScore: m.MatchScore})
	}
	return SimulateResponse{
		ID:                    r.ID,
		Category:              string(r.Category),
		Readiness:             r.Readiness,
		CompetitionIndex:      r.CompetitionIndex,
		AcceptanceProbability: r.AcceptanceProbability,
		ConfidenceLevel:       string(r.ConfidenceLevel),
		MarketPercentile:      r.MarketPercentile,
		TopMatches:            matches,
		CreatedAt:             r.CreatedAt,
	}
}

// FromSnapshot converts a market snapshot into its wire form.
func FromSnapshot(s model.MarketSnapshot) MarketResponse {
	out := MarketResponse{
		TopSkills:            make([]SkillCount, 0, len(s.TopSkills)),
		TopCategories:        make([]CategoryCount, 0, len(s.TopCategories)),
		AvgStipendByCategory: make([]CategoryStipend, 0, len(s.AvgStipendByCategory)),
		RemoteRatio:          s.RemoteRatio,
		OnsiteRatio:          s.OnsiteRatio,
		TotalCount:           s.TotalCount,
	}
	for _, c := range s.TopSkills {
		out.TopSkills = append(out.TopSkills, SkillCount{Skill: c.Name, Count: c.Count})
	}
	for _, c := range s.TopCategories {
		out.TopCategories = append(out.TopCategories, CategoryCount{Category: c.Name, Count: c.Count})
	}
	for _, v := range s.AvgStipendByCategory {
		out.AvgStipendByCategory = append(out.AvgStipendByCategory, CategoryStipend{Category: v.Name, AvgStipend: v.Value})
	}
	return out
}

// ToSnapshot converts the wire form back into a domain snapshot.
func (m MarketResponse) ToSnapshot() model.MarketSnapshot {
	s := model.MarketSnapshot{
		RemoteRatio: m.RemoteRatio,
		OnsiteRatio: m.OnsiteRatio,
		TotalCount:  m.TotalCount,
	}
	for _, c := range m.TopSkills {
		s.TopSkills = append(s.TopSkills, model.NamedCount{Name: c.Skill, Count: c.Count})
	}
	for _, c := range m.TopCategories {
		s.TopCategories = append(s.TopCategories, model.NamedCount{Name: c.Category, Count: c.Count})
	}
	for _, v := range m.AvgStipendByCategory {
		s.AvgStipendByCategory = append(s.AvgStipendByCategory, model.NamedValue{Name: v.Category, Value: v.AvgStipend})
	}
	return s
}

// NewBatchItem builds the wire form of one batch outcome.
func NewBatchItem(index int, report *model.ScoreReport, err error) BatchItem {
	item := BatchItem{Index: index}
	switch {
	case err != nil:
		item.Error = err.Error()
	case report != nil:
		rep := FromReport(*report)
		item.Report = &rep
	}
	return item
}

// HistorySummary aggregates a caller's stored simulations.
type HistorySummary struct {
	TotalRuns      int `json:"totalRuns"`
	AvgReadiness   int `json:"avgReadiness"`
	PeakAcceptance int `json:"peakAcceptance"`
}

// HistoryEntry is a stored report with the role and tier it was run for.
type HistoryEntry struct {
	SimulateResponse
	Role string `json:"role"`
	Tier string `json:"tier"`
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Summary  HistorySummary `json:"summary"`
	Reports  []HistoryEntry `json:"reports"`
}

// NewHistoryResponse builds one page of a caller's history.
func NewHistoryResponse(page, pageSize int, summary HistorySummary, reports []model.ScoreReport) HistoryResponse {
	out := HistoryResponse{
		Page:     page,
		PageSize: pageSize,
		Summary:  summary,
		Reports:  make([]HistoryEntry, 0, len(reports)),
	}
	for _, r := range reports {
		out.Reports = append(out.Reports, HistoryEntry{SimulateResponse: FromReport(r), Role: r.Role, Tier: r.Tier})
	}
	return out
}

// RoleCount is the number of simulations run for a role.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// AuditEntry is the wire form of model.AuditEvent.
type AuditEntry struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	UserID    string         `json:"userId,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// OverviewResponse is the body of GET /admin/overview.
type OverviewResponse struct {
	TotalSimulations int          `json:"totalSimulations"`
	TotalEvents      int          `json:"totalEvents"`
	TotalUsers       int          `json:"totalUsers"`
	TopRoles         []RoleCount  `json:"topRoles"`
	RecentEvents     []AuditEntry `json:"recentEvents"`
}

// NewOverviewResponse converts overview aggregates into their wire form.
func NewOverviewResponse(simulations, events, users int, roles []model.NamedCount, recent []model.AuditEvent) OverviewResponse {
	out := OverviewResponse{
		TotalSimulations: simulations,
		TotalEvents:      events,
		TotalUsers:       users,
		TopRoles:         make([]RoleCount, 0, len(roles)),
		RecentEvents:     make([]AuditEntry, 0, len(recent)),
	}
	for _, c := range roles {
		out.TopRoles = append(out.TopRoles, RoleCount{Role: c.Name, Count: c.Count})
	}
	for _, e := range recent {
		meta := e.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		out.RecentEvents = append(out.RecentEvents, AuditEntry{
			ID: e.ID, Type: string(e.Type), UserID: e.UserID, Metadata: meta, CreatedAt: e.CreatedAt,
		})
	}
	return out
}
