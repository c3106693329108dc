package distribute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the slice of the SNS client the notifier needs.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier broadcasts reports as email-style messages on a topic.
type Notifier struct {
	client  SNSAPI
	topic   string
	enabled bool
	logger  *slog.Logger
	now     func() time.Time
}

func NewNotifier(client SNSAPI, topicARN string, enabled bool, logger *slog.Logger) *Notifier {
	return &Notifier{
		client:  client,
		topic:   topicARN,
		enabled: enabled,
		logger:  logger,
		now:     time.Now,
	}
}

// Notify publishes the report. No-op when notifications are disabled or no
// topic is configured.
func (n *Notifier) Notify(ctx context.Context, reportText string) error {
	if !n.enabled || n.topic == "" {
		n.logger.Debug("email notifications not configured, skipping")
		return nil
	}

	subject := fmt.Sprintf("AWS Cost Optimization Report - %s", n.now().Format("January 2, 2006"))

	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topic),
		Subject:  aws.String(subject),
		Message:  aws.String(reportText),
	})
	if err != nil {
		return fmt.Errorf("publish report to %s: %w", n.topic, err)
	}

	n.logger.Info("report notification sent", "topic", n.topic)
	return nil
}
