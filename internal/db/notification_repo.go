package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agendapulse/internal/types"
)

// NotificationRepository provides write access to the notifications table.
// Rows created here are consumed later by the notification center; the
// engine never reads them back.
type NotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a NotificationRepository backed by the
// given connection (pool or transaction).
func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification record. If the ID is empty a prefixed UUID
// is generated; if CreatedAt is zero the store clock is used. The assigned
// values are written back onto n.
func (r *NotificationRepository) Create(ctx context.Context, n *types.Notification) error {
	if n.ID == "" {
		n.ID = fmt.Sprintf("notif_%s", uuid.NewString())
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications
		 (id, profile_id, account_id, kind, title, body, entity_type, entity_id, group_id, created_at, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID,
		n.ProfileID,
		nilIfEmpty(n.AccountID),
		string(n.Kind),
		n.Title,
		n.Body,
		n.EntityType,
		n.EntityID,
		nilIfEmpty(n.GroupID),
		n.CreatedAt,
		n.Enabled,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeStoreCreate, "creating notification", err)
	}

	return nil
}
