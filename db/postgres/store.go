// Package postgres provides the PostgreSQL implementation of the snapshot
// store.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"aws-cost-optimizer/pkg/api"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements the snapshot store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore opens a connection pool and runs migrations.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, snapshot *api.AnalysisSnapshot) error {
	record, err := snapshot.Record()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cost_snapshots (id, ts, recommendations_count, total_potential_savings, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			ts = EXCLUDED.ts,
			recommendations_count = EXCLUDED.recommendations_count,
			total_potential_savings = EXCLUDED.total_potential_savings,
			data = EXCLUDED.data`,
		record.ID, record.Timestamp, record.RecommendationsCount,
		record.TotalPotentialSavings, record.Data,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", record.ID, err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context) (*api.SnapshotRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ts, recommendations_count, total_potential_savings, data, ai_report, report_generated_at
		FROM cost_snapshots
		ORDER BY ts DESC
		LIMIT 1`)

	var record api.SnapshotRecord
	err := row.Scan(
		&record.ID,
		&record.Timestamp,
		&record.RecommendationsCount,
		&record.TotalPotentialSavings,
		&record.Data,
		&record.AIReport,
		&record.ReportGeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return &record, nil
}

func (s *Store) AttachReport(ctx context.Context, id, reportText string, generatedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE cost_snapshots
		SET ai_report = $1, report_generated_at = $2
		WHERE id = $3`,
		reportText, generatedAt.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("attach report to snapshot %s: %w", id, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
