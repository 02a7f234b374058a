package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/internsim/internal/domain/model"
)

var opportunityColumns = []string{
	"id", "company", "role", "category", "location", "remote_mode",
	"stipend_min", "stipend_max", "duration_months", "skills",
}

func TestPostgresLoader_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(opportunityColumns).
		AddRow("r1", "Acme", "Backend Intern", "Backend Development", "Delhi", "Hybrid", 8000, 12000, 3, "{Go,SQL}").
		AddRow("r2", "Chip", "Firmware Intern", "Embedded", "Chennai", "Onsite", 5000, 9000, 6, "{}")
	mock.ExpectQuery(regexp.QuoteMeta("FROM opportunities ORDER BY id")).WillReturnRows(rows)

	records, err := NewPostgresLoader(db).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.CategoryBackend, records[0].Category)
	assert.Equal(t, []string{"Go", "SQL"}, records[0].Skills)
	assert.Equal(t, 12000, records[0].StipendMax)
	assert.Equal(t, model.CategoryOther, records[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoader_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err = NewPostgresLoader(db).Load(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoader_InvalidRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(opportunityColumns).
		AddRow("bad", "X", "Y", "Other", "", "Remote", 9000, 100, 1, "{Go}")
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	_, err = NewPostgresLoader(db).Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
