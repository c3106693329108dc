// Package db defines the snapshot persistence contract and selects the
// configured backend.
package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"aws-cost-optimizer/db/clickhouse"
	"aws-cost-optimizer/db/dynamo"
	"aws-cost-optimizer/db/postgres"
	"aws-cost-optimizer/pkg/api"
	"aws-cost-optimizer/pkg/config"
	"aws-cost-optimizer/pkg/errors"
)

// Store persists analysis snapshots. Save failures are fatal to a
// collection cycle; Latest reports an empty store as (nil, nil) and callers
// treat a fetch error the same way; AttachReport is best-effort at every
// call site.
type Store interface {
	Save(ctx context.Context, snapshot *api.AnalysisSnapshot) error
	Latest(ctx context.Context) (*api.SnapshotRecord, error)
	AttachReport(ctx context.Context, id, reportText string, generatedAt time.Time) error
	Ping(ctx context.Context) error
	Close() error
}

// Open constructs the store named by STORE_BACKEND.
func Open(cfg *config.Config, awsCfg aws.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		return dynamo.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger), nil
	case config.BackendClickHouse:
		return clickhouse.NewStore(&clickhouse.Config{
			Host:     cfg.ClickHouse.Host,
			Port:     cfg.ClickHouse.Port,
			Database: cfg.ClickHouse.Database,
			Username: cfg.ClickHouse.Username,
			Password: cfg.ClickHouse.Password,
		})
	case config.BackendPostgres:
		return postgres.NewStore(cfg.DatabaseURL)
	default:
		return nil, errors.NewUnsupportedBackendError(cfg.StoreBackend)
	}
}
