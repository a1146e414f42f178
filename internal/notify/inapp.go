package notify

import (
	"context"
	"fmt"
	"log/slog"

	"agendapulse/internal/types"
)

// ProfileGetter is the profile lookup the in-app channel needs to
// denormalize the external account id onto created notifications.
type ProfileGetter interface {
	GetByID(ctx context.Context, id string) (*types.Profile, error)
}

// NotificationCreator is the single write the in-app channel performs.
type NotificationCreator interface {
	Create(ctx context.Context, n *types.Notification) error
}

// Compile-time assertion that InAppChannel implements Channel.
var _ Channel = (*InAppChannel)(nil)

// InAppChannel creates in-app notification records for the notification
// center. It is the only channel with a wired transport.
type InAppChannel struct {
	profiles      ProfileGetter
	notifications NotificationCreator
	logger        *slog.Logger
}

// NewInAppChannel creates an InAppChannel over the given stores.
func NewInAppChannel(profiles ProfileGetter, notifications NotificationCreator, logger *slog.Logger) *InAppChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &InAppChannel{
		profiles:      profiles,
		notifications: notifications,
		logger:        logger,
	}
}

// Type returns the channel identifier.
func (c *InAppChannel) Type() types.ReminderChannel {
	return types.ChannelInApp
}

// Deliver creates one notification record for the recipient. A failed
// profile lookup is logged and the notification is still created without an
// account id; dropping the reminder over a denormalization miss would be
// worse than an incomplete row.
func (c *InAppChannel) Deliver(ctx context.Context, d Delivery) (int, error) {
	accountID := ""
	profile, err := c.profiles.GetByID(ctx, d.ProfileID)
	if err != nil {
		c.logger.WarnContext(ctx, "profile lookup failed, creating notification without account id",
			"profile_id", d.ProfileID,
			"event_id", d.Event.ID,
			"error", err,
		)
	} else {
		accountID = profile.AccountID
	}

	n := &types.Notification{
		ProfileID:  d.ProfileID,
		AccountID:  accountID,
		Kind:       types.KindEventReminder,
		Title:      ReminderTitle(d.Event),
		Body:       ReminderBody(d.Event, d.Now),
		EntityType: types.EntityTypeEvents,
		EntityID:   d.Event.ID,
		GroupID:    d.Event.GroupID,
		CreatedAt:  d.Now,
		Enabled:    true,
	}

	if err := c.notifications.Create(ctx, n); err != nil {
		return 0, fmt.Errorf("creating in-app notification for profile %s: %w", d.ProfileID, err)
	}

	return 1, nil
}
