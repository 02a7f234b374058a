package history

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/okian/internsim/internal/domain/model"
)

// MemorySink keeps history in process memory. Contents are lost on restart.
type MemorySink struct {
	mu      sync.RWMutex
	reports []model.ScoreReport
	audits  []model.AuditEvent
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// AppendReport stores r.
func (m *MemorySink) AppendReport(_ context.Context, r model.ScoreReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	return nil
}

// AppendAudit stores e.
func (m *MemorySink) AppendAudit(_ context.Context, e model.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, e)
	return nil
}

// Reports returns a copy of the stored reports for userID, oldest first.
// An empty userID matches every report.
func (m *MemorySink) Reports(userID string) []model.ScoreReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.ScoreReport, 0, len(m.reports))
	for _, r := range m.reports {
		if userID == "" || r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// AuditCounts returns the number of stored audit events per type.
func (m *MemorySink) AuditCounts() map[model.AuditType]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.AuditType]int)
	for _, e := range m.audits {
		counts[e.Type]++
	}
	return counts
}

// ListReports returns a page of userID's reports, newest first.
func (m *MemorySink) ListReports(_ context.Context, userID string, limit, offset int) ([]model.ScoreReport, error) {
	reports := newestFirst(m.Reports(userID))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(reports) {
		return []model.ScoreReport{}, nil
	}
	end := len(reports)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return reports[offset:end], nil
}

// Summary aggregates userID's reports.
func (m *MemorySink) Summary(_ context.Context, userID string) (Summary, error) {
	reports := m.Reports(userID)
	var s Summary
	if len(reports) == 0 {
		return s, nil
	}
	sum := 0
	for _, r := range reports {
		sum += r.Readiness
		s.PeakAcceptance = max(s.PeakAcceptance, r.AcceptanceProbability)
	}
	s.TotalRuns = len(reports)
	s.AvgReadiness = int(math.Round(float64(sum) / float64(len(reports))))
	return s, nil
}

// Overview aggregates every stored report and audit event.
func (m *MemorySink) Overview(_ context.Context, recent, topRoles int) (Overview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o := Overview{TotalSimulations: len(m.reports), TotalEvents: len(m.audits)}

	users := make(map[string]struct{})
	roles := make(map[string]int)
	for _, r := range m.reports {
		if r.UserID != "" {
			users[r.UserID] = struct{}{}
		}
		roles[r.Role]++
	}
	o.DistinctUsers = len(users)

	for name, n := range roles {
		o.TopRoles = append(o.TopRoles, model.NamedCount{Name: name, Count: n})
	}
	sort.Slice(o.TopRoles, func(i, j int) bool {
		if o.TopRoles[i].Count != o.TopRoles[j].Count {
			return o.TopRoles[i].Count > o.TopRoles[j].Count
		}
		return o.TopRoles[i].Name < o.TopRoles[j].Name
	})
	if topRoles >= 0 && len(o.TopRoles) > topRoles {
		o.TopRoles = o.TopRoles[:topRoles]
	}

	events := make([]model.AuditEvent, len(m.audits))
	copy(events, m.audits)
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	if recent >= 0 && len(events) > recent {
		events = events[:recent]
	}
	o.RecentEvents = events
	return o, nil
}

// newestFirst orders reports by creation time, latest first. Equal
// timestamps keep the later append first.
func newestFirst(reports []model.ScoreReport) []model.ScoreReport {
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	return reports
}
