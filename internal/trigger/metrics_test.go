package trigger

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendapulse/internal/types"
)

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestCloudWatchEmitterPublishesTickCounters(t *testing.T) {
	client := &mockCloudWatch{}
	emitter := NewCloudWatchEmitter(client, "AgendaPulse/ReminderTrigger", nil)

	emitter.EmitRun(context.Background(), types.RunReport{
		EventsProcessed:      7,
		RemindersChecked:     12,
		NotificationsCreated: 4,
		Errors:               1,
		DurationMs:           850,
		HasMore:              true,
	})

	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "AgendaPulse/ReminderTrigger", *input.Namespace)
	require.Len(t, input.MetricData, 6)

	values := make(map[string]float64, len(input.MetricData))
	for _, d := range input.MetricData {
		values[*d.MetricName] = *d.Value
	}
	assert.Equal(t, 7.0, values[MetricEventsProcessed])
	assert.Equal(t, 12.0, values[MetricRemindersChecked])
	assert.Equal(t, 4.0, values[MetricNotificationsCreated])
	assert.Equal(t, 1.0, values[MetricTickErrors])
	assert.Equal(t, 1.0, values[MetricScanTruncated])
	assert.Equal(t, 850.0, values[MetricTickDuration])
}

func TestCloudWatchEmitterSwallowsPublishFailure(t *testing.T) {
	client := &mockCloudWatch{err: errors.New("throttled")}
	emitter := NewCloudWatchEmitter(client, "AgendaPulse/ReminderTrigger", nil)

	// Must not panic or propagate; metric emission never affects the tick.
	emitter.EmitRun(context.Background(), types.RunReport{})

	require.Len(t, client.inputs, 1)
}
