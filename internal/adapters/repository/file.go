package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/types"
)

// FileLoader reads a JSON array of opportunities from disk.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load implements Loader.
func (f *FileLoader) Load(ctx context.Context) ([]model.OpportunityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", f.path, err)
	}
	var wire []types.Opportunity
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", f.path, err)
	}
	records := make([]model.OpportunityRecord, 0, len(wire))
	for i, o := range wire {
		rec := o.ToRecord()
		if err := checkRecord(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// checkRecord enforces the normalized-corpus invariants.
func checkRecord(r model.OpportunityRecord) error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	case r.StipendMin < 0 || r.StipendMax < 0:
		return fmt.Errorf("%w: %s: negative stipend", ErrInvalidRecord, r.ID)
	case r.StipendMin > r.StipendMax:
		return fmt.Errorf("%w: %s: stipend min exceeds max", ErrInvalidRecord, r.ID)
	}
	return nil
}
