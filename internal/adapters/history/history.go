// Package history persists score reports and audit events off the request
// path, and reads them back for callers and operators. A Recorder enqueues
// entries; a worker pool drains them into a Sink.
package history

import (
	"context"
	"errors"

	"github.com/okian/internsim/internal/adapters/mq/worker"
	"github.com/okian/internsim/internal/domain/model"
)

// Read-back limits.
const (
	PageSize        = 6  // reports per history page
	OverviewRecent  = 50 // audit events in the operator overview
	OverviewTopRole = 3  // roles in the operator overview
)

// ErrNotReadable is returned when the configured sink cannot be queried.
var ErrNotReadable = errors.New("history sink is write-only")

// Sink is an append-only store for reports and audit events.
type Sink = worker.Sink

// Summary aggregates one caller's stored simulations.
type Summary struct {
	TotalRuns      int
	AvgReadiness   int // rounded mean, 0 without runs
	PeakAcceptance int // 0 without runs
}

// Overview is the operator view over every caller.
type Overview struct {
	TotalSimulations int
	TotalEvents      int
	DistinctUsers    int // callers with at least one stored simulation
	TopRoles         []model.NamedCount
	RecentEvents     []model.AuditEvent // newest first
}

// Reader queries stored history.
type Reader interface {
	// ListReports returns userID's reports newest first.
	ListReports(ctx context.Context, userID string, limit, offset int) ([]model.ScoreReport, error)
	Summary(ctx context.Context, userID string) (Summary, error)
	// Overview returns totals, the topRoles most simulated roles and the
	// recent newest audit events.
	Overview(ctx context.Context, recent, topRoles int) (Overview, error)
}

var (
	_ Reader = (*MemorySink)(nil)
	_ Reader = (*PostgresSink)(nil)
)
