// Package trigger implements the scheduled reminder-trigger engine: one tick
// scans upcoming confirmed events, evaluates their reminder rules against the
// acceptance window, fans out notifications to the resolved recipients, and
// idempotently records trigger state.
package trigger

import "time"

const (
	// startTolerance widens the window backwards to absorb a missed or
	// delayed previous tick.
	startTolerance = time.Minute

	// triggerTolerance bounds how far ahead of now a trigger time may be
	// and still fire this tick.
	triggerTolerance = time.Minute

	// scanHorizon is the hard ceiling on how far into the future events are
	// scanned at all. Reminders further out are simply not inspected yet.
	scanHorizon = 24 * time.Hour

	// ReminderCooldown is the minimum spacing between two firings of the
	// same rule. It is the only protection against duplicate delivery from
	// overlapping or retried ticks; the engine holds no distributed lock.
	ReminderCooldown = time.Hour
)

// Window holds the time bounds for one tick, all pure derivations of the
// tick instant.
type Window struct {
	// Start is the lower bound for both the event scan and the acceptance
	// test (now − 1 minute).
	Start time.Time
	// End is the upper bound for events worth inspecting for near-term
	// triggers (now + lookAhead).
	End time.Time
	// MaxLookAhead is the upper bound of the event scan (now + 24h).
	MaxLookAhead time.Time
	// TriggerEnd is the upper bound of the acceptance window for a rule's
	// resolved trigger time (now + 1 minute).
	TriggerEnd time.Time
}

// ComputeWindow derives the tick windows from the given instant and
// look-ahead horizon. Pure; inject the clock for deterministic tests.
func ComputeWindow(now time.Time, lookAhead time.Duration) Window {
	return Window{
		Start:        now.Add(-startTolerance),
		End:          now.Add(lookAhead),
		MaxLookAhead: now.Add(scanHorizon),
		TriggerEnd:   now.Add(triggerTolerance),
	}
}

// Accepts reports whether a resolved trigger time falls inside the
// acceptance window [Start, TriggerEnd], bounds included. Outside this band
// a rule is either too early (a future tick handles it) or already past
// (assumed handled).
func (w Window) Accepts(triggerTime time.Time) bool {
	return !triggerTime.Before(w.Start) && !triggerTime.After(w.TriggerEnd)
}
