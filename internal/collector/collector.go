// Package collector gathers compute and block-storage utilization samples
// from the cloud account. Collection is pure I/O plus aggregation: each
// resource class fails soft to an empty result so one broken API never
// blanks the whole cycle.
package collector

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"aws-cost-optimizer/pkg/api"
)

// MetricWindow is the rolling utilization window applied to every instance.
const MetricWindow = 7 * 24 * time.Hour

// metricPeriod buckets the window into daily datapoints.
const metricPeriodSeconds = 86400

// EC2API is the slice of the EC2 client the collector needs.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	ec2.DescribeVolumesAPIClient
}

// CloudWatchAPI is the slice of the CloudWatch client the collector needs.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// Collector queries the provider for resource inventory and metrics.
type Collector struct {
	ec2    EC2API
	cw     CloudWatchAPI
	logger *slog.Logger
	now    func() time.Time
}

func New(ec2Client EC2API, cwClient CloudWatchAPI, logger *slog.Logger) *Collector {
	return &Collector{
		ec2:    ec2Client,
		cw:     cwClient,
		logger: logger,
		now:    time.Now,
	}
}

// Collect returns one sample set per resource class. A failed provider call
// degrades that class to an empty slice; the error is logged, not returned.
func (c *Collector) Collect(ctx context.Context) api.Metrics {
	return api.Metrics{
		Compute: c.collectInstances(ctx),
		Storage: c.collectVolumes(ctx),
	}
}

func (c *Collector) collectInstances(ctx context.Context) []api.ResourceSample {
	samples := []api.ResourceSample{}

	paginator := ec2.NewDescribeInstancesPaginator(c.ec2, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{"running"}},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			c.logger.Warn("instance collection degraded to empty result", "error", err)
			return []api.ResourceSample{}
		}
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				samples = append(samples, c.sampleInstance(ctx, instance))
			}
		}
	}

	c.logger.Info("collected compute samples", "count", len(samples))
	return samples
}

func (c *Collector) sampleInstance(ctx context.Context, instance ec2types.Instance) api.ResourceSample {
	sample := api.ResourceSample{
		ResourceID:   aws.ToString(instance.InstanceId),
		ResourceType: string(instance.InstanceType),
		CreatedAt:    aws.ToTime(instance.LaunchTime),
	}
	sample.CPUAverage, sample.CPUMax = c.cpuStatistics(ctx, sample.ResourceID)
	return sample
}

// cpuStatistics aggregates daily CPU datapoints over the metric window:
// mean of the daily averages, max of the daily maxima. Both default to 0
// when the window holds no datapoints or the metrics call fails.
func (c *Collector) cpuStatistics(ctx context.Context, instanceID string) (avg, max float64) {
	end := c.now()
	start := end.Add(-MetricWindow)

	out, err := c.cw.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/EC2"),
		MetricName: aws.String("CPUUtilization"),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
		},
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(metricPeriodSeconds),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage, cwtypes.StatisticMaximum},
	})
	if err != nil {
		c.logger.Warn("metric query failed, defaulting to zero utilization",
			"instance_id", instanceID, "error", err)
		return 0, 0
	}
	if len(out.Datapoints) == 0 {
		return 0, 0
	}

	var sum float64
	for _, dp := range out.Datapoints {
		sum += aws.ToFloat64(dp.Average)
		if m := aws.ToFloat64(dp.Maximum); m > max {
			max = m
		}
	}
	avg = round2(sum / float64(len(out.Datapoints)))
	return avg, round2(max)
}

func (c *Collector) collectVolumes(ctx context.Context) []api.VolumeSample {
	samples := []api.VolumeSample{}

	paginator := ec2.NewDescribeVolumesPaginator(c.ec2, &ec2.DescribeVolumesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			c.logger.Warn("volume collection degraded to empty result", "error", err)
			return []api.VolumeSample{}
		}
		for _, volume := range page.Volumes {
			samples = append(samples, api.VolumeSample{
				ResourceID: aws.ToString(volume.VolumeId),
				SizeGB:     aws.ToInt32(volume.Size),
				State:      string(volume.State),
				IsAttached: len(volume.Attachments) > 0,
				CreatedAt:  aws.ToTime(volume.CreateTime),
			})
		}
	}

	c.logger.Info("collected storage samples", "count", len(samples))
	return samples
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
