package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	w := ComputeWindow(now, 5*time.Minute)

	assert.Equal(t, now.Add(-time.Minute), w.Start)
	assert.Equal(t, now.Add(5*time.Minute), w.End)
	assert.Equal(t, now.Add(24*time.Hour), w.MaxLookAhead)
	assert.Equal(t, now.Add(time.Minute), w.TriggerEnd)
}

func TestComputeWindowCustomLookAhead(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	w := ComputeWindow(now, 30*time.Minute)

	assert.Equal(t, now.Add(30*time.Minute), w.End)
	// Scan ceiling and trigger tolerance do not move with the look-ahead.
	assert.Equal(t, now.Add(24*time.Hour), w.MaxLookAhead)
	assert.Equal(t, now.Add(time.Minute), w.TriggerEnd)
}

func TestWindowAccepts(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	w := ComputeWindow(now, 5*time.Minute)

	tests := []struct {
		name        string
		triggerTime time.Time
		want        bool
	}{
		{"exactly now", now, true},
		{"window start boundary", now.Add(-time.Minute), true},
		{"trigger end boundary", now.Add(time.Minute), true},
		{"just before window start", now.Add(-time.Minute - time.Second), false},
		{"just after trigger end", now.Add(time.Minute + time.Second), false},
		{"far future", now.Add(time.Hour), false},
		{"far past", now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Accepts(tt.triggerTime))
		})
	}
}
