package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendapulse/internal/types"
)

// ============================================================
// Mocks
// ============================================================

type mockProfiles struct {
	byID map[string]types.Profile
	err  error
}

func (m *mockProfiles) GetByID(_ context.Context, id string) (*types.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, types.NewAppError(types.ErrCodeNotFoundProfile, "profile not found", nil)
	}
	return &p, nil
}

type mockNotifications struct {
	created []types.Notification
	err     error
}

func (m *mockNotifications) Create(_ context.Context, n *types.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, *n)
	return nil
}

// recordingChannel counts deliveries and can fail on demand.
type recordingChannel struct {
	channel   types.ReminderChannel
	delivered int
	created   int
	err       error
}

func (c *recordingChannel) Type() types.ReminderChannel { return c.channel }

func (c *recordingChannel) Deliver(context.Context, Delivery) (int, error) {
	c.delivered++
	if c.err != nil {
		return 0, c.err
	}
	return c.created, nil
}

func testDelivery() Delivery {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return Delivery{
		Event: types.Event{
			ID:             "evt_1",
			Title:          "Planning",
			StartAt:        now.Add(10 * time.Minute),
			OwnerProfileID: "prof_1",
			GroupID:        "grp_1",
		},
		Rule:      types.ReminderRule{ID: "rem_1", EventID: "evt_1"},
		ProfileID: "prof_1",
		Now:       now,
	}
}

// ============================================================
// Dispatcher
// ============================================================

func TestDispatchDefaultsToInApp(t *testing.T) {
	inApp := &recordingChannel{channel: types.ChannelInApp, created: 1}
	push := &recordingChannel{channel: types.ChannelPush}
	d := NewDispatcher(nil, inApp, push)

	del := testDelivery() // no channels on the rule
	created, failures := d.Dispatch(context.Background(), del)

	assert.Equal(t, 1, created)
	assert.Equal(t, 0, failures)
	assert.Equal(t, 1, inApp.delivered)
	assert.Equal(t, 0, push.delivered)
}

func TestDispatchFansOutToRequestedChannels(t *testing.T) {
	inApp := &recordingChannel{channel: types.ChannelInApp, created: 1}
	push := &recordingChannel{channel: types.ChannelPush}
	d := NewDispatcher(nil, inApp, push)

	del := testDelivery()
	del.Rule.Channels = []types.ReminderChannel{types.ChannelInApp, types.ChannelPush}
	created, failures := d.Dispatch(context.Background(), del)

	assert.Equal(t, 1, created)
	assert.Equal(t, 0, failures)
	assert.Equal(t, 1, inApp.delivered)
	assert.Equal(t, 1, push.delivered)
}

func TestDispatchUnknownChannelIsSkip(t *testing.T) {
	inApp := &recordingChannel{channel: types.ChannelInApp, created: 1}
	d := NewDispatcher(nil, inApp)

	del := testDelivery()
	del.Rule.Channels = []types.ReminderChannel{"sms"}
	created, failures := d.Dispatch(context.Background(), del)

	assert.Equal(t, 0, created)
	assert.Equal(t, 0, failures)
}

func TestDispatchFailureDoesNotAbortSiblings(t *testing.T) {
	inApp := &recordingChannel{channel: types.ChannelInApp, err: errors.New("boom")}
	push := &recordingChannel{channel: types.ChannelPush}
	d := NewDispatcher(nil, inApp, push)

	del := testDelivery()
	del.Rule.Channels = []types.ReminderChannel{types.ChannelInApp, types.ChannelPush}
	created, failures := d.Dispatch(context.Background(), del)

	assert.Equal(t, 0, created)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 1, push.delivered, "push still attempted after in-app failure")
}

// ============================================================
// In-app channel
// ============================================================

func TestInAppDeliverCreatesNotification(t *testing.T) {
	profiles := &mockProfiles{byID: map[string]types.Profile{
		"prof_1": {ID: "prof_1", AccountID: "acct_1"},
	}}
	notifications := &mockNotifications{}
	ch := NewInAppChannel(profiles, notifications, nil)

	created, err := ch.Deliver(context.Background(), testDelivery())

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, notifications.created, 1)

	n := notifications.created[0]
	assert.Equal(t, "prof_1", n.ProfileID)
	assert.Equal(t, "acct_1", n.AccountID)
	assert.Equal(t, types.KindEventReminder, n.Kind)
	assert.Equal(t, "Recordatorio: Planning", n.Title)
	assert.Equal(t, `Tu evento "Planning" comienza en 10 minutos`, n.Body)
	assert.Equal(t, types.EntityTypeEvents, n.EntityType)
	assert.Equal(t, "evt_1", n.EntityID)
	assert.Equal(t, "grp_1", n.GroupID)
	assert.True(t, n.Enabled)
}

// A failed profile lookup degrades to a notification without account id
// instead of dropping the reminder.
func TestInAppDeliverProfileLookupFailureStillCreates(t *testing.T) {
	profiles := &mockProfiles{err: errors.New("store unavailable")}
	notifications := &mockNotifications{}
	ch := NewInAppChannel(profiles, notifications, nil)

	created, err := ch.Deliver(context.Background(), testDelivery())

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, notifications.created, 1)
	assert.Empty(t, notifications.created[0].AccountID)
}

func TestInAppDeliverCreateFailurePropagates(t *testing.T) {
	profiles := &mockProfiles{byID: map[string]types.Profile{
		"prof_1": {ID: "prof_1", AccountID: "acct_1"},
	}}
	notifications := &mockNotifications{err: errors.New("write refused")}
	ch := NewInAppChannel(profiles, notifications, nil)

	created, err := ch.Deliver(context.Background(), testDelivery())

	require.Error(t, err)
	assert.Equal(t, 0, created)
}

// ============================================================
// Stub channels
// ============================================================

func TestStubChannelIsInert(t *testing.T) {
	ch := NewStubChannel(types.ChannelEmail, nil)

	created, err := ch.Deliver(context.Background(), testDelivery())

	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, types.ChannelEmail, ch.Type())
}
