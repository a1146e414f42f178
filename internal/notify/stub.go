package notify

import (
	"context"
	"log/slog"

	"agendapulse/internal/types"
)

// Compile-time assertion that StubChannel implements Channel.
var _ Channel = (*StubChannel)(nil)

// StubChannel accepts a channel as valid rule configuration without
// performing any delivery. Push and email are registered as stubs until
// their dispatch services are wired in: the rule still fires and is marked
// triggered, but no record or side effect is produced.
type StubChannel struct {
	channel types.ReminderChannel
	logger  *slog.Logger
}

// NewStubChannel creates an inert channel for the given identifier.
func NewStubChannel(channel types.ReminderChannel, logger *slog.Logger) *StubChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubChannel{channel: channel, logger: logger}
}

// Type returns the channel identifier.
func (c *StubChannel) Type() types.ReminderChannel {
	return c.channel
}

// Deliver does nothing. It logs at debug so a misconfigured expectation of
// push/email delivery is diagnosable from the logs.
func (c *StubChannel) Deliver(ctx context.Context, d Delivery) (int, error) {
	c.logger.DebugContext(ctx, "channel transport not wired, skipping delivery",
		"channel", string(c.channel),
		"reminder_id", d.Rule.ID,
		"profile_id", d.ProfileID,
	)
	return 0, nil
}
