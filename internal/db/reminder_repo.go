package db

import (
	"context"
	"time"

	"agendapulse/internal/types"
)

// ReminderRepository provides access to the event_reminders table. Reads are
// unrestricted; the only write the engine is allowed is the conditional
// trigger-state update in MarkTriggered.
type ReminderRepository struct {
	db DBTX
}

// NewReminderRepository creates a ReminderRepository backed by the given
// connection (pool or transaction).
func NewReminderRepository(db DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// ListForEvent returns up to limit enabled reminder rules attached to the
// given event, oldest first so rule evaluation order is stable across ticks.
func (r *ReminderRepository) ListForEvent(ctx context.Context, eventID string, limit int) ([]types.ReminderRule, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, type, at_time, COALESCE(minutes_before, 0), channels, enabled, last_triggered_at
		 FROM event_reminders
		 WHERE event_id = $1
		   AND enabled = TRUE
		 ORDER BY created_at ASC
		 LIMIT $2`,
		eventID,
		limit,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreQuery, "listing reminder rules", err)
	}
	defer rows.Close()

	var rules []types.ReminderRule
	for rows.Next() {
		var rule types.ReminderRule
		var ruleType string
		var channels []string
		if err := rows.Scan(&rule.ID, &rule.EventID, &ruleType, &rule.AtTime, &rule.MinutesBefore, &channels, &rule.Enabled, &rule.LastTriggeredAt); err != nil {
			return nil, types.NewAppError(types.ErrCodeStoreQuery, "scanning reminder row", err)
		}
		rule.Type = types.ReminderType(ruleType)
		for _, ch := range channels {
			rule.Channels = append(rule.Channels, types.ReminderChannel(ch))
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreQuery, "iterating reminder rows", err)
	}

	return rules, nil
}

// MarkTriggered sets last_triggered_at = triggeredAt on the rule, but only
// if the stored value still matches the value read during evaluation. This
// compare-and-swap closes the race window between the fire decision and the
// write under overlapping ticks: the loser of the race observes updated=false
// and must not count the firing as its own.
//
// expected carries the last_triggered_at value the evaluator read (nil for a
// never-triggered rule).
func (r *ReminderRepository) MarkTriggered(ctx context.Context, ruleID string, triggeredAt time.Time, expected *time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE event_reminders
		 SET last_triggered_at = $2
		 WHERE id = $1
		   AND last_triggered_at IS NOT DISTINCT FROM $3`,
		ruleID,
		triggeredAt,
		expected,
	)
	if err != nil {
		return false, types.NewAppError(types.ErrCodeStoreUpdate, "marking reminder triggered", err)
	}

	return tag.RowsAffected() == 1, nil
}
