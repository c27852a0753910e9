package brackets

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, buffer int) (*Hub, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(buffer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)
	return hub, ctx
}

func receive(t *testing.T, sub *Subscription) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		return ev, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}, false
	}
}

func TestHubDeliversToRoom(t *testing.T) {
	hub, ctx := newTestHub(t, 4)

	sub, err := hub.Subscribe(ctx, "cup-1")
	require.NoError(t, err)
	other, err := hub.Subscribe(ctx, "cup-2")
	require.NoError(t, err)

	hub.Publish("cup-1", Event{Type: EventMatchUpdated, Payload: 3})

	ev, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, EventMatchUpdated, ev.Type)
	assert.Equal(t, "cup-1", ev.RoomID)
	assert.Equal(t, 3, ev.Payload)

	select {
	case ev := <-other.Events():
		t.Fatalf("unexpected event in other room: %v", ev)
	default:
	}
}

func TestHubCloseSubscription(t *testing.T) {
	hub, ctx := newTestHub(t, 4)

	sub, err := hub.Subscribe(ctx, "cup")
	require.NoError(t, err)
	require.NoError(t, sub.Close(ctx))

	_, ok := receive(t, sub)
	assert.False(t, ok, "events channel is closed")

	// публикация в пустую комнату ничего не делает
	hub.Publish("cup", Event{Type: EventBracketDeleted})
}

func TestHubDropsEventsForSlowSubscriber(t *testing.T) {
	hub, ctx := newTestHub(t, 1)

	sub, err := hub.Subscribe(ctx, "cup")
	require.NoError(t, err)

	hub.Publish("cup", Event{Type: EventBracketCreated})
	hub.Publish("cup", Event{Type: EventBracketStarted})

	ev, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, EventBracketCreated, ev.Type)
	select {
	case ev := <-sub.Events():
		t.Fatalf("second event should have been dropped, got %v", ev)
	default:
	}
}

func TestHubStopClosesSubscriptions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(2, nil)
	go hub.Run(ctx)

	sub, err := hub.Subscribe(ctx, "cup")
	require.NoError(t, err)
	cancel()

	_, ok := receive(t, sub)
	assert.False(t, ok)
}

func TestSubscribeHonoursContext(t *testing.T) {
	hub := NewHub(1, nil) // Run не запущен
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hub.Subscribe(ctx, "cup")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, hub.Unsubscribe(ctx, &Subscription{Room: "cup"}), context.Canceled)
}
