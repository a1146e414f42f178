package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"agendapulse/internal/notify"
	"agendapulse/internal/types"
)

// Per-tick caps. An event with more rules or attendees than these is
// truncated, not failed.
const (
	maxRulesPerEvent     = 20
	maxAttendeesPerEvent = 100
)

// EventStore abstracts the event scan. Satisfied by db.EventRepository.
type EventStore interface {
	// ListUpcoming returns enabled confirmed events with start_at strictly
	// inside (after, before), ordered by start time, capped at limit.
	ListUpcoming(ctx context.Context, after, before time.Time, limit int) ([]types.Event, error)
}

// ReminderStore abstracts reminder-rule reads and the single trigger-state
// write. Satisfied by db.ReminderRepository.
type ReminderStore interface {
	// ListForEvent returns up to limit enabled rules attached to the event.
	ListForEvent(ctx context.Context, eventID string, limit int) ([]types.ReminderRule, error)
	// MarkTriggered sets last_triggered_at = triggeredAt only if the stored
	// value still equals expected. Returns whether the row was updated.
	MarkTriggered(ctx context.Context, ruleID string, triggeredAt time.Time, expected *time.Time) (bool, error)
}

// AttendeeStore abstracts the attendee read. Satisfied by
// db.AttendeeRepository.
type AttendeeStore interface {
	// ListActive returns up to limit enabled, non-declined attendees.
	ListActive(ctx context.Context, eventID string, limit int) ([]types.Attendee, error)
}

// Dispatcher fans one delivery out across the rule's channel set.
// Satisfied by notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, d notify.Delivery) (created int, failures int)
}

// TriggerInput is the optional payload for manual invocation. The scheduled
// EventBridge rule sends an empty payload; operators can pin the reference
// time for deterministic replay or override the tuning caps for a backfill.
type TriggerInput struct {
	ReferenceTime    *time.Time `json:"reference_time,omitempty"`
	BatchSize        int        `json:"batch_size,omitempty"`
	LookAheadMinutes int        `json:"look_ahead_minutes,omitempty"`
}

// Engine is the reminder-trigger service. One Run call is one tick:
// single-threaded, run-to-completion, tolerant of overlapping invocations
// through the per-rule cool-down rather than mutual exclusion.
type Engine struct {
	events     EventStore
	reminders  ReminderStore
	attendees  AttendeeStore
	dispatcher Dispatcher
	metrics    Emitter

	batchSize int
	lookAhead time.Duration

	clock  func() time.Time
	logger *slog.Logger
}

// EngineConfig holds the dependencies and tuning for creating an Engine.
type EngineConfig struct {
	Events     EventStore
	Reminders  ReminderStore
	Attendees  AttendeeStore
	Dispatcher Dispatcher
	Metrics    Emitter

	// BatchSize caps events scanned per tick (default 100).
	BatchSize int
	// LookAhead is the candidate-event horizon (default 5 minutes).
	LookAhead time.Duration

	// Clock overrides the tick instant source. Defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// NewEngine creates an Engine with the given configuration.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	lookAhead := cfg.LookAhead
	if lookAhead <= 0 {
		lookAhead = 5 * time.Minute
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopEmitter{}
	}
	return &Engine{
		events:     cfg.Events,
		reminders:  cfg.Reminders,
		attendees:  cfg.Attendees,
		dispatcher: cfg.Dispatcher,
		metrics:    metrics,
		batchSize:  batchSize,
		lookAhead:  lookAhead,
		clock:      clock,
		logger:     logger,
	}
}

// Run executes one tick and returns the execution report. Only a failed
// event scan, a cancelled context, or a panic aborts the remainder of a run;
// everything else is recovered per item, logged, and counted. No rollback is
// performed for work already done: the design is additive and at-least-once
// per item, not transactional across the run.
func (e *Engine) Run(ctx context.Context, input TriggerInput) (report types.RunReport) {
	started := time.Now()
	defer func() {
		report.DurationMs = time.Since(started).Milliseconds()
		if r := recover(); r != nil {
			report.OK = false
			report.Errors++
			report.Error = fmt.Sprintf("unhandled panic: %v", r)
			report.Message = "tick aborted"
			e.logger.ErrorContext(ctx, "tick aborted by panic", "panic", r)
		}
		e.metrics.EmitRun(ctx, report)
	}()

	now := e.clock().UTC()
	if input.ReferenceTime != nil {
		now = input.ReferenceTime.UTC()
	}

	batchSize := e.batchSize
	if input.BatchSize > 0 {
		batchSize = input.BatchSize
	}
	lookAhead := e.lookAhead
	if input.LookAheadMinutes > 0 {
		lookAhead = time.Duration(input.LookAheadMinutes) * time.Minute
	}
	if input.BatchSize < 0 || input.LookAheadMinutes < 0 {
		report.Errors++
		report.Error = "invalid invocation overrides: batch_size and look_ahead_minutes must be positive"
		report.Message = "tick rejected"
		return report
	}

	window := ComputeWindow(now, lookAhead)

	e.logger.InfoContext(ctx, "tick started",
		"now", now.Format(time.RFC3339),
		"window_start", window.Start.Format(time.RFC3339),
		"max_look_ahead", window.MaxLookAhead.Format(time.RFC3339),
		"batch_size", batchSize,
	)

	events, err := e.events.ListUpcoming(ctx, window.Start, window.MaxLookAhead, batchSize)
	if err != nil {
		report.Errors++
		report.Error = fmt.Sprintf("scanning events: %v", err)
		report.Message = "tick failed"
		e.logger.ErrorContext(ctx, "event scan failed", "error", err)
		return report
	}

	report.HasMore = len(events) == batchSize

	for _, event := range events {
		// A host deadline still needs a flushed report with partial counts.
		if ctx.Err() != nil {
			report.Error = fmt.Sprintf("tick interrupted: %v", ctx.Err())
			report.Message = "tick interrupted"
			report.Errors++
			e.logger.WarnContext(ctx, "tick interrupted before completion",
				"events_processed", report.EventsProcessed,
				"error", ctx.Err(),
			)
			return report
		}

		e.processEvent(ctx, event, now, window, &report)
		report.EventsProcessed++
	}

	report.OK = true
	report.Message = "reminder sweep complete"

	e.logger.InfoContext(ctx, report.Message,
		"events_processed", report.EventsProcessed,
		"reminders_checked", report.RemindersChecked,
		"notifications_created", report.NotificationsCreated,
		"errors", report.Errors,
		"has_more", report.HasMore,
	)

	return report
}

// processEvent evaluates every enabled rule of one event. A failure to load
// the rules is a per-event error: counted, logged, and the tick moves on.
func (e *Engine) processEvent(ctx context.Context, event types.Event, now time.Time, window Window, report *types.RunReport) {
	rules, err := e.reminders.ListForEvent(ctx, event.ID, maxRulesPerEvent)
	if err != nil {
		report.Errors++
		e.logger.ErrorContext(ctx, "loading reminder rules failed",
			"event_id", event.ID,
			"error", err,
		)
		return
	}

	for _, rule := range rules {
		report.RemindersChecked++
		e.evaluateRule(ctx, event, rule, now, window, report)
	}
}

// ResolveTriggerTime computes a rule's absolute trigger time from the event
// it is attached to. The second return is false for invalid or unrecognized
// rule configuration, which is a skip, never an error.
func ResolveTriggerTime(rule types.ReminderRule, event types.Event) (time.Time, bool) {
	switch rule.Type {
	case types.ReminderAtTime:
		if rule.AtTime == nil {
			return time.Time{}, false
		}
		return *rule.AtTime, true
	case types.ReminderMinutesBefore:
		if rule.MinutesBefore <= 0 {
			return time.Time{}, false
		}
		return event.StartAt.Add(-time.Duration(rule.MinutesBefore) * time.Minute), true
	default:
		return time.Time{}, false
	}
}

// evaluateRule runs the fire decision for one rule and, when it fires,
// performs the fan-out and the trigger-state write. The write happens even
// when some deliveries failed: partial delivery must not re-arm the rule,
// trading guaranteed delivery for avoidance of duplicate storms.
func (e *Engine) evaluateRule(ctx context.Context, event types.Event, rule types.ReminderRule, now time.Time, window Window, report *types.RunReport) {
	triggerTime, ok := ResolveTriggerTime(rule, event)
	if !ok {
		e.logger.InfoContext(ctx, "skipping reminder with invalid configuration",
			"reminder_id", rule.ID,
			"event_id", event.ID,
			"type", string(rule.Type),
		)
		return
	}

	if !window.Accepts(triggerTime) {
		return
	}

	if rule.LastTriggeredAt != nil && now.Sub(*rule.LastTriggeredAt) < ReminderCooldown {
		e.logger.DebugContext(ctx, "reminder inside cool-down, skipping",
			"reminder_id", rule.ID,
			"last_triggered_at", rule.LastTriggeredAt.Format(time.RFC3339),
		)
		return
	}

	recipients := e.resolveRecipients(ctx, event, report)

	created := 0
	for _, profileID := range recipients {
		n, failures := e.dispatcher.Dispatch(ctx, notify.Delivery{
			Event:     event,
			Rule:      rule,
			ProfileID: profileID,
			Now:       now,
		})
		created += n
		report.Errors += failures
	}
	report.NotificationsCreated += created

	updated, err := e.reminders.MarkTriggered(ctx, rule.ID, now, rule.LastTriggeredAt)
	if err != nil {
		// Not retried this tick; a duplicate firing next tick is the
		// accepted trade-off.
		report.Errors++
		e.logger.WarnContext(ctx, "trigger-state write failed",
			"reminder_id", rule.ID,
			"error", err,
		)
		return
	}
	if !updated {
		e.logger.WarnContext(ctx, "trigger-state write lost race to concurrent tick",
			"reminder_id", rule.ID,
		)
	}

	e.logger.InfoContext(ctx, "reminder fired",
		"reminder_id", rule.ID,
		"event_id", event.ID,
		"trigger_time", triggerTime.Format(time.RFC3339),
		"recipients", len(recipients),
		"notifications_created", created,
	)
}

// resolveRecipients builds the deduplicated recipient list: the event owner
// unconditionally, then every enabled non-declined attendee. A failed
// attendee read is counted and the owner is still notified.
func (e *Engine) resolveRecipients(ctx context.Context, event types.Event, report *types.RunReport) []string {
	recipients := []string{event.OwnerProfileID}
	seen := map[string]struct{}{event.OwnerProfileID: {}}

	attendees, err := e.attendees.ListActive(ctx, event.ID, maxAttendeesPerEvent)
	if err != nil {
		report.Errors++
		e.logger.ErrorContext(ctx, "loading attendees failed, notifying owner only",
			"event_id", event.ID,
			"error", err,
		)
		return recipients
	}

	for _, a := range attendees {
		if _, dup := seen[a.ProfileID]; dup {
			continue
		}
		seen[a.ProfileID] = struct{}{}
		recipients = append(recipients, a.ProfileID)
	}

	return recipients
}
