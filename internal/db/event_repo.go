package db

import (
	"context"
	"time"

	"agendapulse/internal/types"
)

// EventRepository provides read access to the events table. Events are owned
// and mutated by the rest of the application; this engine only scans them.
type EventRepository struct {
	db DBTX
}

// NewEventRepository creates an EventRepository backed by the given
// connection (pool or transaction).
func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

// ListUpcoming returns enabled, confirmed events whose start time falls
// strictly inside (after, before), ordered by start time and capped at limit.
// Callers compare len(result) against limit to detect a truncated scan.
func (r *EventRepository) ListUpcoming(ctx context.Context, after, before time.Time, limit int) ([]types.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, start_at, status, enabled, owner_profile_id, COALESCE(group_id, '')
		 FROM events
		 WHERE enabled = TRUE
		   AND status = $1
		   AND start_at > $2
		   AND start_at < $3
		 ORDER BY start_at ASC
		 LIMIT $4`,
		string(types.EventStatusConfirmed),
		after,
		before,
		limit,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreQuery, "listing upcoming events", err)
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		var e types.Event
		var status string
		if err := rows.Scan(&e.ID, &e.Title, &e.StartAt, &status, &e.Enabled, &e.OwnerProfileID, &e.GroupID); err != nil {
			return nil, types.NewAppError(types.ErrCodeStoreQuery, "scanning event row", err)
		}
		e.Status = types.EventStatus(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreQuery, "iterating event rows", err)
	}

	return events, nil
}
