// Package notify implements the per-recipient, per-channel fan-out of a
// firing reminder. Channels are registered behind a common interface so the
// evaluator never branches on channel kind; wiring a real push or email
// transport means registering a new Channel implementation here.
package notify

import (
	"context"
	"log/slog"
	"time"

	"agendapulse/internal/types"
)

// Delivery is one unit of fan-out work: a firing rule on an event, addressed
// to a single recipient profile, evaluated at the tick instant Now.
type Delivery struct {
	Event     types.Event
	Rule      types.ReminderRule
	ProfileID string
	Now       time.Time
}

// Channel delivers a reminder on one transport. Created reports how many
// notification records the delivery produced (zero for channels that are
// accepted as configuration but not yet transported).
type Channel interface {
	Type() types.ReminderChannel
	Deliver(ctx context.Context, d Delivery) (created int, err error)
}

// defaultChannels is the channel set applied when a rule specifies none.
var defaultChannels = []types.ReminderChannel{types.ChannelInApp}

// Dispatcher routes a delivery to every channel in the rule's channel set.
type Dispatcher struct {
	channels map[types.ReminderChannel]Channel
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given channel implementations.
func NewDispatcher(logger *slog.Logger, channels ...Channel) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	m := make(map[types.ReminderChannel]Channel, len(channels))
	for _, ch := range channels {
		m[ch.Type()] = ch
	}
	return &Dispatcher{channels: m, logger: logger}
}

// Dispatch fans one delivery out to each requested channel. A rule with an
// empty channel set gets the in-app default. Per-channel failures are logged
// and counted but never abort the remaining channels; an unregistered
// channel name is an invalid-configuration skip, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, del Delivery) (created int, failures int) {
	channels := del.Rule.Channels
	if len(channels) == 0 {
		channels = defaultChannels
	}

	for _, chType := range channels {
		ch, ok := d.channels[chType]
		if !ok {
			d.logger.InfoContext(ctx, "skipping unknown reminder channel",
				"channel", string(chType),
				"reminder_id", del.Rule.ID,
			)
			continue
		}

		n, err := ch.Deliver(ctx, del)
		if err != nil {
			failures++
			d.logger.ErrorContext(ctx, "channel delivery failed",
				"channel", string(chType),
				"reminder_id", del.Rule.ID,
				"profile_id", del.ProfileID,
				"error", err,
			)
			continue
		}
		created += n
	}

	return created, failures
}
