package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpulse/showcase/internal/domain/ports"
)

func TestConnectionManager(t *testing.T) {
	t.Run("register and broadcast", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		conn := &Connection{ID: "c1", Send: make(chan ports.UpdateEvent, 1)}
		cm.RegisterConnection(conn)

		require.Eventually(t, func() bool {
			return cm.ClientCount() == 1
		}, time.Second, 10*time.Millisecond)

		cm.Broadcast(ports.UpdateEvent{Type: ports.EventTypeReload, Timestamp: time.Now()})

		select {
		case event := <-conn.Send:
			assert.Equal(t, ports.EventTypeReload, event.Type)
		case <-time.After(time.Second):
			t.Fatal("broadcast event not delivered")
		}
	})

	t.Run("unregister closes send channel", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		conn := &Connection{ID: "c1", Send: make(chan ports.UpdateEvent, 1)}
		cm.RegisterConnection(conn)
		cm.Unregister("c1")

		require.Eventually(t, func() bool {
			return cm.ClientCount() == 0
		}, time.Second, 10*time.Millisecond)

		select {
		case _, ok := <-conn.Send:
			assert.False(t, ok, "send channel should be closed")
		case <-time.After(time.Second):
			t.Fatal("send channel not closed")
		}
	})

	t.Run("slow client is dropped", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		// Unbuffered channel with no reader simulates a stuck client.
		conn := &Connection{ID: "slow", Send: make(chan ports.UpdateEvent)}
		cm.RegisterConnection(conn)

		require.Eventually(t, func() bool {
			return cm.ClientCount() == 1
		}, time.Second, 10*time.Millisecond)

		cm.Broadcast(ports.UpdateEvent{Type: ports.EventTypeMetrics, Timestamp: time.Now()})

		assert.Eventually(t, func() bool {
			return cm.ClientCount() == 0
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("close all", func(t *testing.T) {
		cm := NewConnectionManager()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go cm.Run(ctx)

		for _, id := range []string{"a", "b", "c"} {
			cm.RegisterConnection(&Connection{ID: id, Send: make(chan ports.UpdateEvent, 1)})
		}

		require.Eventually(t, func() bool {
			return cm.ClientCount() == 3
		}, time.Second, 10*time.Millisecond)

		cm.CloseAll()
		assert.Equal(t, 0, cm.ClientCount())
	})
}
