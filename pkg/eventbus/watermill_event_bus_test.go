package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumamark/relay/pkg/eventbus"
	"github.com/lumamark/relay/pkg/eventbus/gochannel"
	"github.com/lumamark/relay/pkg/events"
)

func testBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	return eventbus.NewWatermillEventBus(pub, sub)
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *events.TriggerFired, 1)

	err := bus.Handle(events.TriggerFiredEvent, func(_ context.Context, event any) error {
		fired, ok := event.(*events.TriggerFired)
		if ok {
			received <- fired
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	fired := events.TriggerFired{
		BaseEvent: events.BaseEvent{
			ID:         "evt-1",
			Type:       events.TriggerFiredEvent,
			Timestamp:  time.Now().UTC(),
			WorkflowID: "wf-1",
		},
		TriggerType: "CONTACT_CREATED",
		TriggerData: map[string]any{"email": "ana@x.com"},
	}

	require.NoError(t, bus.Publish(ctx, "wf-1", fired))

	select {
	case got := <-received:
		assert.Equal(t, "wf-1", got.WorkflowID)
		assert.Equal(t, "CONTACT_CREATED", got.TriggerType)
		assert.Equal(t, "ana@x.com", got.TriggerData["email"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_UnhandledTypeIsAcked(t *testing.T) {
	bus := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resumed := make(chan *events.RunResumed, 1)

	err := bus.Handle(events.RunResumedEvent, func(_ context.Context, event any) error {
		if r, ok := event.(*events.RunResumed); ok {
			resumed <- r
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for run.completed; it must not block the stream.
	completed := events.RunCompleted{
		BaseEvent: events.BaseEvent{ID: "evt-1", Type: events.RunCompletedEvent},
		RunID:     "run-1",
	}
	require.NoError(t, bus.Publish(ctx, "wf-1", completed))

	event := events.RunResumed{
		BaseEvent: events.BaseEvent{ID: "evt-2", Type: events.RunResumedEvent},
		RunID:     "run-1",
		StepIndex: 2,
	}
	require.NoError(t, bus.Publish(ctx, "wf-1", event))

	select {
	case got := <-resumed:
		assert.Equal(t, "run-1", got.RunID)
		assert.Equal(t, 2, got.StepIndex)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for resume event")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := testBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
