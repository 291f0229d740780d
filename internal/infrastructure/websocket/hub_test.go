package websocket

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversBroadcasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	hub.Start(ctx)

	client := NewClient(nil)
	hub.Register(client)

	hub.Broadcast([]byte(`{"stats":{"total":1}}`))

	select {
	case message := <-client.Send:
		assert.JSONEq(t, `{"stats":{"total":1}}`, string(message))
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	hub.Start(ctx)

	client := NewClient(nil)
	hub.Register(client)
	hub.Unregister(client)

	require.Eventually(t, func() bool {
		select {
		case _, open := <-client.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.clientCount())
}

func TestHubDropsStalledClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	hub.Start(ctx)

	client := NewClient(nil)
	hub.Register(client)

	// the client never drains; once its queue is full the hub evicts it
	for i := 0; i < 12; i++ {
		hub.Broadcast([]byte(fmt.Sprintf(`{"seq":%d}`, i)))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return hub.clientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
