package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/tracewell/skiptrace/internal/db"
	"github.com/tracewell/skiptrace/internal/model"
	"github.com/tracewell/skiptrace/internal/resilience"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	pingCfg := resilience.DefaultRetryConfig()
	pingCfg.OnRetry = resilience.RetryLogger("postgres", "ping")
	if err := resilience.Do(ctx, pingCfg, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	report     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS report_entities (
	report_id  TEXT NOT NULL REFERENCES reports(id),
	type       TEXT NOT NULL,
	value      TEXT NOT NULL,
	confidence INTEGER NOT NULL,
	verified   BOOLEAN NOT NULL DEFAULT false,
	source     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_reports_name ON reports(name);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
CREATE INDEX IF NOT EXISTS idx_report_entities_report_id ON report_entities(report_id);
CREATE INDEX IF NOT EXISTS idx_report_entities_type ON report_entities(type);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveReport upserts a report and rewrites its entity rows via COPY.
func (s *PostgresStore) SaveReport(ctx context.Context, report *model.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	upsert, err := db.UpsertSQL(db.UpsertConfig{
		Table:        "reports",
		Columns:      []string{"id", "name", "report", "created_at"},
		ConflictKeys: []string{"id"},
		UpdateCols:   []string{"name", "report"},
	})
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, upsert, report.ID, report.Context.Name, string(reportJSON), report.CreatedAt); err != nil {
		return eris.Wrap(err, "postgres: upsert report")
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM report_entities WHERE report_id = $1`, report.ID); err != nil {
		return eris.Wrap(err, "postgres: clear entities")
	}

	rows := make([][]any, 0, len(report.Entities))
	for _, e := range report.Entities {
		rows = append(rows, []any{report.ID, string(e.Type), e.Value, e.Confidence, e.Verified, e.Source})
	}
	_, err = db.CopyFrom(ctx, s.pool, "report_entities",
		[]string{"report_id", "type", "value", "confidence", "verified", "source"}, rows)
	return err
}

func (s *PostgresStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	row := s.pool.QueryRow(ctx, `SELECT report FROM reports WHERE id = $1`, id)

	var reportJSON []byte
	err := row.Scan(&reportJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get report %s", id)
	}

	var report model.Report
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal report")
	}
	return &report, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := `SELECT report FROM reports`
	var args []any

	if filter.Name != "" {
		args = append(args, filter.Name)
		query += ` WHERE name = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var reportJSON []byte
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		var r model.Report
		if err := json.Unmarshal(reportJSON, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report")
		}
		reports = append(reports, r)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}

func (s *PostgresStore) DeleteReport(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM report_entities WHERE report_id = $1`, id); err != nil {
		return eris.Wrap(err, "postgres: delete entities")
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete report %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
