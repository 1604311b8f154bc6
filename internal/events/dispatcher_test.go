package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoich-web/internal/events"
)

func TestPublishReachesOnlyMatchingSubscribers(t *testing.T) {
	t.Parallel()

	d := events.NewInMemoryDispatcher()
	var got []string
	d.Subscribe(events.EventCollectionInvalidated, func(_ context.Context, e events.Event) error {
		got = append(got, "invalidated:"+e.SessionID)
		return nil
	})
	d.Subscribe(events.EventCustomerDeleted, func(_ context.Context, e events.Event) error {
		got = append(got, "deleted:"+e.SessionID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), events.NewEvent(events.EventCollectionInvalidated, "s1", nil)))
	assert.Equal(t, []string{"invalidated:s1"}, got)
}

func TestPublishRunsEveryHandlerAndJoinsErrors(t *testing.T) {
	t.Parallel()

	d := events.NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(events.EventSessionEnded, func(context.Context, events.Event) error {
		calls++
		return boom
	})
	d.Subscribe(events.EventSessionEnded, func(context.Context, events.Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), events.NewEvent(events.EventSessionEnded, "s1", nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewEventStampsIDAndTime(t *testing.T) {
	t.Parallel()

	e := events.NewEvent(events.EventCustomerDeleted, "s1", events.CustomerDeletedPayload{CustomerID: "c1"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, events.CustomerDeletedPayload{CustomerID: "c1"}, e.Payload)
}
