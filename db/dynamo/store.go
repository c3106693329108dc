// Package dynamo provides the DynamoDB implementation of the snapshot
// store. Records are keyed by the timestamp-derived snapshot id; listing is
// a bounded best-effort scan sorted client-side, not an indexed query.
package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"aws-cost-optimizer/pkg/api"
)

// scanLimit bounds the page fetched when looking for the latest snapshot.
const scanLimit = 10

// DynamoDBAPI is the slice of the DynamoDB client the store needs.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store persists snapshots in a DynamoDB table.
type Store struct {
	client DynamoDBAPI
	table  string
	logger *slog.Logger
}

func New(client DynamoDBAPI, table string, logger *slog.Logger) *Store {
	return &Store{client: client, table: table, logger: logger}
}

func (s *Store) Save(ctx context.Context, snapshot *api.AnalysisSnapshot) error {
	record, err := snapshot.Record()
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", record.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put record %s into %s: %w", record.ID, s.table, err)
	}

	s.logger.Info("snapshot stored", "id", record.ID, "table", s.table,
		"recommendations", record.RecommendationsCount)
	return nil
}

func (s *Store) Latest(ctx context.Context) (*api.SnapshotRecord, error) {
	// "timestamp" and "data" are reserved words, hence the name aliases.
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		Limit:                aws.Int32(scanLimit),
		ProjectionExpression: aws.String("id, #ts, recommendations_count, total_potential_savings, #data, ai_report, report_generated_at"),
		ExpressionAttributeNames: map[string]string{
			"#ts":   "timestamp",
			"#data": "data",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.table, err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var records []api.SnapshotRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("unmarshal records from %s: %w", s.table, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return &records[0], nil
}

func (s *Store) AttachReport(ctx context.Context, id, reportText string, generatedAt time.Time) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]ddbtypes.AttributeValue{
			"id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET ai_report = :report, report_generated_at = :ts"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":report": &ddbtypes.AttributeValueMemberS{Value: reportText},
			":ts":     &ddbtypes.AttributeValueMemberS{Value: generatedAt.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("update record %s in %s: %w", id, s.table, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
