package dynamo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aws-cost-optimizer/pkg/api"
)

type fakeDynamo struct {
	putInput    *dynamodb.PutItemInput
	putErr      error
	scanOut     *dynamodb.ScanOutput
	scanErr     error
	updateInput *dynamodb.UpdateItemInput
	updateErr   error
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.scanOut == nil {
		return &dynamodb.ScanOutput{}, f.scanErr
	}
	return f.scanOut, f.scanErr
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInput = in
	return &dynamodb.UpdateItemOutput{}, f.updateErr
}

func (f *fakeDynamo) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() *api.AnalysisSnapshot {
	return &api.AnalysisSnapshot{
		ID:        "2026-08-23_10-00-00",
		Timestamp: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		Recommendations: []api.Recommendation{
			{Type: api.RecommendationRightsize, ResourceID: "i-1", EstimatedSavings: 50},
			{Type: api.RecommendationCleanup, ResourceID: "vol-1", EstimatedSavings: 10.5},
		},
		TotalPotentialSavings: 60.5,
	}
}

func TestSaveWritesRecordShape(t *testing.T) {
	client := &fakeDynamo{}
	store := New(client, "cost-optimizer-data", discardLogger())

	require.NoError(t, store.Save(context.Background(), testSnapshot()))

	require.NotNil(t, client.putInput)
	assert.Equal(t, "cost-optimizer-data", aws.ToString(client.putInput.TableName))

	var record api.SnapshotRecord
	require.NoError(t, attributevalue.UnmarshalMap(client.putInput.Item, &record))
	assert.Equal(t, "2026-08-23_10-00-00", record.ID)
	assert.Equal(t, "2026-08-23T10:00:00Z", record.Timestamp)
	assert.Equal(t, 2, record.RecommendationsCount)
	// Truncated, not rounded.
	assert.Equal(t, int64(60), record.TotalPotentialSavings)
	assert.NotEmpty(t, record.Data)
}

func TestSavePropagatesWriteFailure(t *testing.T) {
	client := &fakeDynamo{putErr: errors.New("throughput exceeded")}
	store := New(client, "t", discardLogger())

	err := store.Save(context.Background(), testSnapshot())
	assert.Error(t, err)
}

func TestLatestEmptyStoreIsNotAnError(t *testing.T) {
	store := New(&fakeDynamo{}, "t", discardLogger())

	record, err := store.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestLatestSortsByTimestampDescending(t *testing.T) {
	older, _ := (&api.AnalysisSnapshot{ID: "a", Timestamp: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)}).Record()
	newer, _ := (&api.AnalysisSnapshot{ID: "b", Timestamp: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)}).Record()

	olderItem, err := attributevalue.MarshalMap(older)
	require.NoError(t, err)
	newerItem, err := attributevalue.MarshalMap(newer)
	require.NoError(t, err)

	store := New(&fakeDynamo{
		scanOut: &dynamodb.ScanOutput{Items: []map[string]ddbtypes.AttributeValue{olderItem, newerItem}},
	}, "t", discardLogger())

	record, err := store.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "b", record.ID)
}

func TestRoundTripPreservesSummaryColumns(t *testing.T) {
	client := &fakeDynamo{}
	store := New(client, "t", discardLogger())
	snapshot := testSnapshot()

	require.NoError(t, store.Save(context.Background(), snapshot))
	client.scanOut = &dynamodb.ScanOutput{
		Items: []map[string]ddbtypes.AttributeValue{client.putInput.Item},
	}

	record, err := store.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, len(snapshot.Recommendations), record.RecommendationsCount)
	assert.Equal(t, int64(snapshot.TotalPotentialSavings), record.TotalPotentialSavings)

	parsed, err := record.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, parsed.ID)
	assert.Equal(t, snapshot.TotalPotentialSavings, parsed.TotalPotentialSavings)
	require.Len(t, parsed.Recommendations, 2)
	assert.Equal(t, snapshot.Recommendations[0].ResourceID, parsed.Recommendations[0].ResourceID)
}

func TestAttachReportUpdatesRecord(t *testing.T) {
	client := &fakeDynamo{}
	store := New(client, "t", discardLogger())
	generatedAt := time.Date(2026, 8, 23, 11, 0, 0, 0, time.UTC)

	require.NoError(t, store.AttachReport(context.Background(), "2026-08-23_10-00-00", "the report", generatedAt))

	require.NotNil(t, client.updateInput)
	key, ok := client.updateInput.Key["id"].(*ddbtypes.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "2026-08-23_10-00-00", key.Value)
	assert.Contains(t, aws.ToString(client.updateInput.UpdateExpression), "ai_report")

	reportVal, ok := client.updateInput.ExpressionAttributeValues[":report"].(*ddbtypes.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "the report", reportVal.Value)
}
