package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetReport_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT report FROM reports WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetReport(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	reportJSON := []byte(`{"id":"r1","context":{"name":"John Smith"},"metrics":{"overall_confidence":80,"total_results":1}}`)
	mock.ExpectQuery(`SELECT report FROM reports WHERE id = \$1`).
		WithArgs("r1").
		WillReturnRows(pgxmock.NewRows([]string{"report"}).AddRow(reportJSON))

	got, err := s.GetReport(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, "John Smith", got.Context.Name)
	assert.Equal(t, 80, got.Metrics.OverallConfidence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	report := testReport("John Smith")

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(report.ID, "John Smith", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM report_entities`).
		WithArgs(report.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"report_entities"},
		[]string{"report_id", "type", "value", "confidence", "verified", "source"}).
		WillReturnResult(1)

	require.NoError(t, s.SaveReport(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveReport_NoEntities(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	report := testReport("John Smith")
	report.Entities = nil

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(report.ID, "John Smith", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM report_entities`).
		WithArgs(report.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	// No COPY when the report has no entities.

	require.NoError(t, s.SaveReport(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListReports(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"report"}).
		AddRow([]byte(`{"id":"r1","context":{"name":"John Smith"}}`)).
		AddRow([]byte(`{"id":"r2","context":{"name":"John Smith"}}`))
	mock.ExpectQuery(`SELECT report FROM reports WHERE name = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("John Smith", 100).
		WillReturnRows(rows)

	reports, err := s.ListReports(context.Background(), ReportFilter{Name: "John Smith"})
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, "r1", reports[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteReport_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM report_entities`).
		WithArgs("nonexistent").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM reports`).
		WithArgs("nonexistent").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteReport(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
