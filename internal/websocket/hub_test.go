package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForSessions(t *testing.T, hub *Hub, userID uint, want int) {
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[userID]) == want
	}, time.Second, 5*time.Millisecond)
}

func TestHub_SendToUser_AllSessionsReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	waitForSessions(t, hub, 1, 2)

	require.NoError(t, hub.SendToUser(1, map[string]string{"title": "hello"}))

	for _, client := range []*Client{a, b} {
		select {
		case msg := <-client.Send:
			assert.Contains(t, string(msg), "hello")
		case <-time.After(time.Second):
			t.Fatal("expected every session to receive the payload")
		}
	}

	assert.True(t, hub.IsUserOnline(1))
	assert.False(t, hub.IsUserOnline(2))
}

func TestHub_UnregisterTwice_OtherSessionSurvives(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 1)}
	b := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 1)}
	hub.Register(a)
	hub.Register(b)
	waitForSessions(t, hub, 1, 2)

	// The send-buffer overflow path and the read pump teardown can both
	// unregister the same session; the second pass must be a no-op.
	hub.Unregister(a)
	hub.Unregister(a)
	waitForSessions(t, hub, 1, 1)

	select {
	case _, open := <-a.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected the removed session's channel to be closed")
	}

	// The surviving session still receives and the hub is still running
	require.NoError(t, hub.SendToUser(1, map[string]string{"title": "still here"}))
	select {
	case msg := <-b.Send:
		assert.Contains(t, string(msg), "still here")
	case <-time.After(time.Second):
		t.Fatal("expected the remaining session to receive the payload")
	}

	hub.Unregister(b)
	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(1)
	}, time.Second, 5*time.Millisecond)
}

func TestHub_SendToUser_FullBufferDisconnectsSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, UserID: 1, Send: make(chan []byte, 1)}
	hub.Register(client)
	waitForSessions(t, hub, 1, 1)

	// First payload fills the buffer; the second finds it full and
	// disconnects the session instead of blocking.
	require.NoError(t, hub.SendToUser(1, map[string]string{"title": "first"}))
	require.NoError(t, hub.SendToUser(1, map[string]string{"title": "second"}))

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(1)
	}, time.Second, 5*time.Millisecond)
}
