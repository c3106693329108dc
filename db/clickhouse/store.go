// Package clickhouse provides the ClickHouse implementation of the
// snapshot store, for self-hosted deployments that keep analysis data out
// of the cloud account.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"aws-cost-optimizer/pkg/api"
)

// Config holds ClickHouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns default development configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		Database: "costoptimizer",
		Username: "default",
		Password: "",
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS cost_snapshots (
	row_id                  UUID,
	id                      String,
	timestamp               String,
	recommendations_count   Int32,
	total_potential_savings Int64,
	data                    String,
	ai_report               String DEFAULT '',
	report_generated_at     String DEFAULT '',
	created_at              DateTime DEFAULT now()
) ENGINE = MergeTree()
ORDER BY (timestamp, id)
`

// Store implements the snapshot store using ClickHouse.
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore connects and ensures the snapshot table exists.
func NewStore(cfg *Config) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	store := &Store{conn: conn, cfg: cfg}
	if err := store.migrate(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if err := s.conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, snapshot *api.AnalysisSnapshot) error {
	record, err := snapshot.Record()
	if err != nil {
		return err
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO cost_snapshots
			(row_id, id, timestamp, recommendations_count, total_potential_savings, data, ai_report, report_generated_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	if err := batch.Append(
		uuid.New(),
		record.ID,
		record.Timestamp,
		int32(record.RecommendationsCount),
		record.TotalPotentialSavings,
		record.Data,
		record.AIReport,
		record.ReportGeneratedAt,
	); err != nil {
		return fmt.Errorf("append snapshot %s: %w", record.ID, err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert snapshot %s: %w", record.ID, err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context) (*api.SnapshotRecord, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, timestamp, recommendations_count, total_potential_savings, data, ai_report, report_generated_at
		FROM cost_snapshots
		ORDER BY timestamp DESC
		LIMIT 1
	`)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}

	var (
		record api.SnapshotRecord
		count  int32
	)
	if err := rows.Scan(
		&record.ID,
		&record.Timestamp,
		&count,
		&record.TotalPotentialSavings,
		&record.Data,
		&record.AIReport,
		&record.ReportGeneratedAt,
	); err != nil {
		return nil, fmt.Errorf("scan latest snapshot: %w", err)
	}
	record.RecommendationsCount = int(count)
	return &record, nil
}

func (s *Store) AttachReport(ctx context.Context, id, reportText string, generatedAt time.Time) error {
	err := s.conn.Exec(ctx, `
		ALTER TABLE cost_snapshots
		UPDATE ai_report = ?, report_generated_at = ?
		WHERE id = ?
	`, reportText, generatedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("attach report to snapshot %s: %w", id, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *Store) Close() error {
	return s.conn.Close()
}
