package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/types"
)

// Schema creates the history tables.
const Schema = `
CREATE TABLE IF NOT EXISTS simulations (
	id                     UUID PRIMARY KEY,
	user_id                TEXT,
	role                   TEXT NOT NULL,
	tier                   TEXT NOT NULL,
	category               TEXT NOT NULL,
	base_readiness         INTEGER NOT NULL,
	demand_boost           DOUBLE PRECISION NOT NULL,
	readiness              INTEGER NOT NULL,
	competition_index      INTEGER NOT NULL,
	acceptance_probability INTEGER NOT NULL,
	confidence_level       TEXT NOT NULL,
	market_percentile      INTEGER NOT NULL,
	top_matches            JSONB NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	type       TEXT NOT NULL,
	user_id    TEXT,
	metadata   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`

const insertSimulation = `INSERT INTO simulations (id, user_id, role, tier, category,
	base_readiness, demand_boost, readiness, competition_index,
	acceptance_probability, confidence_level, market_percentile, top_matches, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const insertAudit = `INSERT INTO audit_events (id, type, user_id, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5)`

const selectReports = `SELECT id, user_id, role, tier, category,
	base_readiness, demand_boost, readiness, competition_index,
	acceptance_probability, confidence_level, market_percentile, top_matches, created_at
	FROM simulations WHERE user_id = $1
	ORDER BY created_at DESC LIMIT $2 OFFSET $3`

const selectSummary = `SELECT COUNT(*), COALESCE(ROUND(AVG(readiness)), 0)::int,
	COALESCE(MAX(acceptance_probability), 0)
	FROM simulations WHERE user_id = $1`

const selectTotals = `SELECT
	(SELECT COUNT(*) FROM simulations),
	(SELECT COUNT(*) FROM audit_events),
	(SELECT COUNT(DISTINCT user_id) FROM simulations)`

const selectTopRoles = `SELECT role, COUNT(*) AS runs FROM simulations
	GROUP BY role ORDER BY runs DESC, role LIMIT $1`

const selectRecentAudits = `SELECT id, type, user_id, metadata, created_at
	FROM audit_events ORDER BY created_at DESC LIMIT $1`

// PostgresSink appends history rows. Anonymous callers are stored with a
// NULL user_id.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink creates a sink over db.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Migrate creates the history tables if they do not exist.
func (s *PostgresSink) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}

// AppendReport inserts r into simulations.
func (s *PostgresSink) AppendReport(ctx context.Context, r model.ScoreReport) error {
	matches := types.FromReport(r).TopMatches
	raw, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertSimulation,
		r.ID, nullable(r.UserID), r.Role, r.Tier, string(r.Category),
		r.BaseReadiness, r.DemandBoost, r.Readiness, r.CompetitionIndex,
		r.AcceptanceProbability, string(r.ConfidenceLevel), r.MarketPercentile,
		raw, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert simulation: %w", err)
	}
	return nil
}

// AppendAudit inserts e into audit_events.
func (s *PostgresSink) AppendAudit(ctx context.Context, e model.AuditEvent) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, insertAudit,
		e.ID, string(e.Type), nullable(e.UserID), raw, e.CreatedAt); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListReports returns a page of userID's simulations, newest first.
func (s *PostgresSink) ListReports(ctx context.Context, userID string, limit, offset int) ([]model.ScoreReport, error) {
	rows, err := s.db.QueryContext(ctx, selectReports, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query simulations: %w", err)
	}
	defer rows.Close()

	reports := make([]model.ScoreReport, 0, max(limit, 0))
	for rows.Next() {
		var (
			r          model.ScoreReport
			user       sql.NullString
			category   string
			confidence string
			raw        []byte
		)
		if err := rows.Scan(&r.ID, &user, &r.Role, &r.Tier, &category,
			&r.BaseReadiness, &r.DemandBoost, &r.Readiness, &r.CompetitionIndex,
			&r.AcceptanceProbability, &confidence, &r.MarketPercentile, &raw, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan simulation: %w", err)
		}
		var matches []types.MatchEntry
		if err := json.Unmarshal(raw, &matches); err != nil {
			return nil, fmt.Errorf("decode matches of %s: %w", r.ID, err)
		}
		r.UserID = user.String
		r.Category = model.Category(category)
		r.ConfidenceLevel = model.ConfidenceLevel(confidence)
		r.TopMatches = make([]model.Match, 0, len(matches))
		for _, m := range matches {
			r.TopMatches = append(r.TopMatches, model.Match{Record: m.ToRecord(), MatchScore: m.MatchScore})
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulations: %w", err)
	}
	return reports, nil
}

// Summary aggregates userID's simulations.
func (s *PostgresSink) Summary(ctx context.Context, userID string) (Summary, error) {
	var sum Summary
	if err := s.db.QueryRowContext(ctx, selectSummary, userID).
		Scan(&sum.TotalRuns, &sum.AvgReadiness, &sum.PeakAcceptance); err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return sum, nil
}

// Overview aggregates every stored simulation and audit event.
func (s *PostgresSink) Overview(ctx context.Context, recent, topRoles int) (Overview, error) {
	var o Overview
	if err := s.db.QueryRowContext(ctx, selectTotals).
		Scan(&o.TotalSimulations, &o.TotalEvents, &o.DistinctUsers); err != nil {
		return Overview{}, fmt.Errorf("query totals: %w", err)
	}

	roles, err := s.db.QueryContext(ctx, selectTopRoles, topRoles)
	if err != nil {
		return Overview{}, fmt.Errorf("query top roles: %w", err)
	}
	defer roles.Close()
	for roles.Next() {
		var c model.NamedCount
		if err := roles.Scan(&c.Name, &c.Count); err != nil {
			return Overview{}, fmt.Errorf("scan role: %w", err)
		}
		o.TopRoles = append(o.TopRoles, c)
	}
	if err := roles.Err(); err != nil {
		return Overview{}, fmt.Errorf("iterate roles: %w", err)
	}

	events, err := s.db.QueryContext(ctx, selectRecentAudits, recent)
	if err != nil {
		return Overview{}, fmt.Errorf("query audit events: %w", err)
	}
	defer events.Close()
	for events.Next() {
		var (
			e        model.AuditEvent
			typ      string
			user     sql.NullString
			metadata []byte
		)
		if err := events.Scan(&e.ID, &typ, &user, &metadata, &e.CreatedAt); err != nil {
			return Overview{}, fmt.Errorf("scan audit event: %w", err)
		}
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return Overview{}, fmt.Errorf("decode metadata of %s: %w", e.ID, err)
		}
		e.Type = model.AuditType(typ)
		e.UserID = user.String
		o.RecentEvents = append(o.RecentEvents, e)
	}
	if err := events.Err(); err != nil {
		return Overview{}, fmt.Errorf("iterate audit events: %w", err)
	}
	return o, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
