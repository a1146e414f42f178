package db

import (
	"context"

	"agendapulse/internal/types"
)

// AttendeeRepository provides read access to the event_attendees table.
type AttendeeRepository struct {
	db DBTX
}

// NewAttendeeRepository creates an AttendeeRepository backed by the given
// connection (pool or transaction).
func NewAttendeeRepository(db DBTX) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// ListActive returns up to limit enabled attendees of the event whose
// response status is not declined. Declined attendees are filtered in the
// query so they can never surface as recipients.
func (r *AttendeeRepository) ListActive(ctx context.Context, eventID string, limit int) ([]types.Attendee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT event_id, profile_id, response_status, enabled
		 FROM event_attendees
		 WHERE event_id = $1
		   AND enabled = TRUE
		   AND response_status <> $2
		 LIMIT $3`,
		eventID,
		string(types.ResponseDeclined),
		limit,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreQuery, "listing attendees", err)
	}
	defer rows.Close()

	var attendees []types.Attendee
	for rows.Next() {
		var a types.Attendee
		var response string
		if err := rows.Scan(&a.EventID, &a.ProfileID, &response, &a.Enabled); err != nil {
			return nil, types.NewAppError(types.ErrCodeStoreQuery, "scanning attendee row", err)
		}
		a.ResponseStatus = types.AttendeeResponse(response)
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeStoreQuery, "iterating attendee rows", err)
	}

	return attendees, nil
}
