package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/okian/internsim/internal/domain/model"
)

const selectOpportunities = `SELECT id, company, role, category, location, remote_mode,
	stipend_min, stipend_max, duration_months, skills
	FROM opportunities ORDER BY id`

// PostgresLoader reads the corpus from the opportunities table.
type PostgresLoader struct {
	db *sql.DB
}

// NewPostgresLoader creates a loader over db.
func NewPostgresLoader(db *sql.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

// Load implements Loader.
func (p *PostgresLoader) Load(ctx context.Context) ([]model.OpportunityRecord, error) {
	rows, err := p.db.QueryContext(ctx, selectOpportunities)
	if err != nil {
		return nil, fmt.Errorf("query opportunities: %w", err)
	}
	defer rows.Close()

	var records []model.OpportunityRecord
	for rows.Next() {
		var (
			r      model.OpportunityRecord
			cat    string
			skills pq.StringArray
		)
		if err := rows.Scan(&r.ID, &r.Company, &r.Role, &cat, &r.Location, &r.RemoteMode,
			&r.StipendMin, &r.StipendMax, &r.DurationMonths, &skills); err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		r.Category = model.ParseCategory(cat)
		r.Skills = []string(skills)
		if err := checkRecord(r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opportunities: %w", err)
	}
	return records, nil
}
