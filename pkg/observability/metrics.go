// Package observability publishes operational counters to CloudWatch.
package observability

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes counters under one CloudWatch namespace. Publishing is
// best-effort: a failed put is logged and dropped, never surfaced to the
// caller.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetrics creates a CloudWatch metrics publisher
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// IncrementCounter adds to a named counter metric
func (m *Metrics) IncrementCounter(ctx context.Context, name string, value float64) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       types.StandardUnitCount,
			},
		},
	})
	if err != nil {
		m.logger.Debug("metric put failed",
			zap.String("metric", name),
			zap.Error(err),
		)
	}
}

// NoopMetrics is used when metrics publishing is disabled
type NoopMetrics struct{}

// IncrementCounter does nothing
func (NoopMetrics) IncrementCounter(ctx context.Context, name string, value float64) {}
