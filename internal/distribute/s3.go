// Package distribute delivers finished reports: archival to object storage
// and broadcast through the notification topic. Both paths are best-effort
// side effects; callers log failures and move on.
package distribute

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client the archiver needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes reports as timestamp-named plain-text objects.
type Archiver struct {
	client  S3API
	bucket  string
	enabled bool
	logger  *slog.Logger
	now     func() time.Time
}

func NewArchiver(client S3API, bucket string, enabled bool, logger *slog.Logger) *Archiver {
	return &Archiver{
		client:  client,
		bucket:  bucket,
		enabled: enabled,
		logger:  logger,
		now:     time.Now,
	}
}

// Archive stores the report. No-op when archival is disabled or no bucket
// is configured.
func (a *Archiver) Archive(ctx context.Context, reportText string) error {
	if !a.enabled || a.bucket == "" {
		a.logger.Debug("report archival not configured, skipping")
		return nil
	}

	key := fmt.Sprintf("reports/cost-report_%s.txt", a.now().UTC().Format("2006-01-02_15-04-05"))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(reportText),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("archive report to s3://%s/%s: %w", a.bucket, key, err)
	}

	a.logger.Info("report archived", "bucket", a.bucket, "key", key)
	return nil
}
