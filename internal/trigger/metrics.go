package trigger

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"agendapulse/internal/types"
)

// Metric names emitted per tick. ScanTruncated is the alarmable form of the
// report's hasMore flag; TickErrors is the alarmable form of errors.
const (
	MetricEventsProcessed      = "EventsProcessed"
	MetricRemindersChecked     = "RemindersChecked"
	MetricNotificationsCreated = "NotificationsCreated"
	MetricTickErrors           = "TickErrors"
	MetricTickDuration         = "TickDuration"
	MetricScanTruncated        = "ScanTruncated"
)

// Emitter publishes the counters of a finished tick. Emission is best
// effort and must never influence the tick outcome.
type Emitter interface {
	EmitRun(ctx context.Context, report types.RunReport)
}

// NoopEmitter discards all metrics. Used when no namespace is configured
// and in tests.
type NoopEmitter struct{}

// EmitRun does nothing.
func (NoopEmitter) EmitRun(context.Context, types.RunReport) {}

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Compile-time assertion that CloudWatchEmitter implements Emitter.
var _ Emitter = (*CloudWatchEmitter)(nil)

// CloudWatchEmitter publishes tick counters to a CloudWatch namespace.
type CloudWatchEmitter struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchEmitter creates an emitter publishing to the given namespace.
func NewCloudWatchEmitter(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudWatchEmitter{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// EmitRun publishes one datum per tick counter. A publish failure is logged
// and swallowed.
func (m *CloudWatchEmitter) EmitRun(ctx context.Context, report types.RunReport) {
	truncated := 0.0
	if report.HasMore {
		truncated = 1.0
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			countDatum(MetricEventsProcessed, float64(report.EventsProcessed)),
			countDatum(MetricRemindersChecked, float64(report.RemindersChecked)),
			countDatum(MetricNotificationsCreated, float64(report.NotificationsCreated)),
			countDatum(MetricTickErrors, float64(report.Errors)),
			countDatum(MetricScanTruncated, truncated),
			{
				MetricName: aws.String(MetricTickDuration),
				Value:      aws.Float64(float64(report.DurationMs)),
				Unit:       cwtypes.StandardUnitMilliseconds,
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish tick metrics",
			"namespace", m.namespace,
			"error", err,
		)
	}
}

func countDatum(name string, value float64) cwtypes.MetricDatum {
	return cwtypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       cwtypes.StandardUnitCount,
	}
}
