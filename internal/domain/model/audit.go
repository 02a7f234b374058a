package model

import "time"

// AuditType names an audited operation.
type AuditType string

const (
	AuditSimulationRun  AuditType = "SIMULATION_RUN"
	AuditBulkSimulation AuditType = "BULK_SIMULATION"
	AuditOfferCompare   AuditType = "OFFER_COMPARE"
)

// AuditEvent is an append-only record of an operation.
type AuditEvent struct {
	ID        string
	Type      AuditType
	UserID    string // empty for anonymous callers
	Metadata  map[string]any
	CreatedAt time.Time
}

// HistoryEntry is the unit handed to the persistence pipeline.
// Report is nil for operations that do not produce one.
type HistoryEntry struct {
	Report *ScoreReport
	Audit  AuditEvent
}
