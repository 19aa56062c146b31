// Package audit records anonymization runs in PostgreSQL so coverage and
// throughput can be reviewed after the fact.
package audit

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Config contains database configuration.
type Config struct {
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Run is one recorded anonymization run.
type Run struct {
	ID              int64     `db:"id" json:"id"`
	InputPath       string    `db:"input_path" json:"input_path"`
	OutputPath      string    `db:"output_path" json:"output_path"`
	ColumnName      string    `db:"column_name" json:"column_name"`
	TotalRecords    int64     `db:"total_records" json:"total_records"`
	RedactedRecords int64     `db:"redacted_records" json:"redacted_records"`
	TotalFindings   int64     `db:"total_findings" json:"total_findings"`
	DurationMS      int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Stats aggregates all recorded runs.
type Stats struct {
	TotalRuns     int64 `db:"total_runs" json:"total_runs"`
	TotalRecords  int64 `db:"total_records" json:"total_records"`
	TotalFindings int64 `db:"total_findings" json:"total_findings"`
}

// Store persists runs in PostgreSQL.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS anonymization_runs (
	id               BIGSERIAL PRIMARY KEY,
	input_path       TEXT NOT NULL,
	output_path      TEXT NOT NULL,
	column_name      TEXT NOT NULL,
	total_records    BIGINT NOT NULL,
	redacted_records BIGINT NOT NULL,
	total_findings   BIGINT NOT NULL,
	duration_ms      BIGINT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewStore connects to the database and ensures the runs table exists.
func NewStore(config *Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	store := &Store{db: db, logger: logger}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit store: %w", err)
	}

	logger.Info("Audit store initialized",
		zap.String("database_url", maskDatabaseURL(config.DatabaseURL)),
		zap.Int("max_open_conns", config.MaxOpenConns))

	return store, nil
}

func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	return nil
}

// RecordRun inserts a run and fills in its assigned ID and timestamp.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO anonymization_runs
			(input_path, output_path, column_name, total_records, redacted_records, total_findings, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		run.InputPath,
		run.OutputPath,
		run.ColumnName,
		run.TotalRecords,
		run.RedactedRecords,
		run.TotalFindings,
		run.DurationMS,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug("Run recorded",
		zap.Int64("id", run.ID),
		zap.String("input_path", run.InputPath),
		zap.Int64("total_records", run.TotalRecords))

	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	query := `SELECT * FROM anonymization_runs ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	return runs, nil
}

// GetStats aggregates totals across all recorded runs.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	query := `
		SELECT
			COUNT(*)                          AS total_runs,
			COALESCE(SUM(total_records), 0)   AS total_records,
			COALESCE(SUM(total_findings), 0)  AS total_findings
		FROM anonymization_runs`
	if err := s.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to query run stats: %w", err)
	}
	return &stats, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// maskDatabaseURL hides credentials before the DSN reaches a log line.
func maskDatabaseURL(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), "***")
	return u.String()
}
