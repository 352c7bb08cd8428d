package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics emits study-session metrics to CloudWatch. A nil Metrics is a
// valid no-op receiver so callers never branch on the feature flag.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetrics creates a metrics emitter for the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// ReviewRecorded emits one count per completed review plus the resulting
// stability, dimensioned by grade. Emission failures are logged, never
// propagated; metrics must not fail a review.
func (m *Metrics) ReviewRecorded(ctx context.Context, grade string, stability float64) {
	if m == nil || m.client == nil {
		return
	}

	now := time.Now()
	gradeDim := types.Dimension{
		Name:  aws.String("Grade"),
		Value: aws.String(grade),
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("ReviewsRecorded"),
				Timestamp:  aws.Time(now),
				Unit:       types.StandardUnitCount,
				Value:      aws.Float64(1),
				Dimensions: []types.Dimension{gradeDim},
			},
			{
				MetricName: aws.String("ItemStabilityDays"),
				Timestamp:  aws.Time(now),
				Unit:       types.StandardUnitNone,
				Value:      aws.Float64(stability),
				Dimensions: []types.Dimension{gradeDim},
			},
		},
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to emit review metrics", zap.Error(err))
	}
}

// SessionCompleted emits a single completion count
func (m *Metrics) SessionCompleted(ctx context.Context) {
	if m == nil || m.client == nil {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("SessionsCompleted"),
				Timestamp:  aws.Time(time.Now()),
				Unit:       types.StandardUnitCount,
				Value:      aws.Float64(1),
			},
		},
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to emit session metric", zap.Error(err))
	}
}
