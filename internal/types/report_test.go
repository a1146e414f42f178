package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The report shape is consumed by operators and dashboards; the field names
// are a contract.
func TestRunReportJSONShape(t *testing.T) {
	report := RunReport{
		OK:                   true,
		Message:              "reminder sweep complete",
		EventsProcessed:      3,
		RemindersChecked:     5,
		NotificationsCreated: 2,
		DurationMs:           120,
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, true, decoded["ok"])
	assert.Equal(t, float64(3), decoded["eventsProcessed"])
	assert.Equal(t, float64(5), decoded["remindersChecked"])
	assert.Equal(t, float64(2), decoded["notificationsCreated"])
	assert.Equal(t, float64(0), decoded["errors"])
	assert.Equal(t, false, decoded["hasMore"])
	assert.NotContains(t, decoded, "error", "error key is omitted on success")
}

func TestSecretStringRedaction(t *testing.T) {
	s := SecretString("postgres://app:hunter2@db/agenda")

	assert.Equal(t, "***REDACTED***", s.String())
	assert.Equal(t, "postgres://app:hunter2@db/agenda", s.Unmask())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"***REDACTED***"`, string(data))
}
