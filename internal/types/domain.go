// Package types defines the shared domain model for the AgendaPulse reminder
// engine. The engine reads events, reminder rules, attendees, and profiles
// owned by the rest of the application, and writes notifications plus a single
// idempotency marker (ReminderRule.LastTriggeredAt). All timestamps are
// absolute UTC instants; timezone handling belongs to the clients.
package types

import "time"

// EventStatus is the lifecycle status of a calendar event.
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusTentative EventStatus = "tentative"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a calendar event. Read-only to the reminder engine.
type Event struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	StartAt        time.Time   `json:"start_at"`
	Status         EventStatus `json:"status"`
	Enabled        bool        `json:"enabled"`
	OwnerProfileID string      `json:"owner_profile_id"`
	GroupID        string      `json:"group_id,omitempty"`
}

// ReminderType selects how a rule's trigger time is resolved.
type ReminderType string

const (
	// ReminderAtTime fires at the rule's AtTime instant verbatim.
	ReminderAtTime ReminderType = "at_time"
	// ReminderMinutesBefore fires MinutesBefore minutes before the event start.
	ReminderMinutesBefore ReminderType = "minutes_before"
)

// ReminderChannel identifies a delivery channel requested by a rule.
type ReminderChannel string

const (
	ChannelInApp ReminderChannel = "in_app"
	ChannelPush  ReminderChannel = "push"
	ChannelEmail ReminderChannel = "email"
)

// ReminderRule is the per-event configuration describing when and how to
// notify. LastTriggeredAt is the only field the engine mutates; it doubles
// as the idempotency marker that enforces the cool-down between two firings
// of the same rule.
type ReminderRule struct {
	ID              string            `json:"id"`
	EventID         string            `json:"event_id"`
	Type            ReminderType      `json:"type"`
	AtTime          *time.Time        `json:"at_time,omitempty"`
	MinutesBefore   int               `json:"minutes_before,omitempty"`
	Channels        []ReminderChannel `json:"channels,omitempty"`
	Enabled         bool              `json:"enabled"`
	LastTriggeredAt *time.Time        `json:"last_triggered_at,omitempty"`
}

// AttendeeResponse is an attendee's RSVP state.
type AttendeeResponse string

const (
	ResponsePending  AttendeeResponse = "pending"
	ResponseAccepted AttendeeResponse = "accepted"
	ResponseDeclined AttendeeResponse = "declined"
)

// Attendee links a profile to an event. Read-only to the engine; declined
// attendees are never notified.
type Attendee struct {
	EventID        string           `json:"event_id"`
	ProfileID      string           `json:"profile_id"`
	ResponseStatus AttendeeResponse `json:"response_status"`
	Enabled        bool             `json:"enabled"`
}

// Profile is a workspace member. The engine reads it only to denormalize the
// external AccountID onto created notifications.
type Profile struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
}

// NotificationKind categorizes notification records for the notification
// center that consumes them.
type NotificationKind string

const (
	KindEventReminder NotificationKind = "event_reminder"
)

// EntityTypeEvents is the entity_type value for notifications that point at
// calendar events.
const EntityTypeEvents = "events"

// Notification is an in-app notification record. Created exclusively by this
// engine; rendered and marked read by the notification center.
type Notification struct {
	ID         string           `json:"id"`
	ProfileID  string           `json:"profile_id"`
	AccountID  string           `json:"account_id,omitempty"`
	Kind       NotificationKind `json:"kind"`
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	EntityType string           `json:"entity_type"`
	EntityID   string           `json:"entity_id"`
	GroupID    string           `json:"group_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	Enabled    bool             `json:"enabled"`
}
