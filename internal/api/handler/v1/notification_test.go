package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler_RegisterReplacesExistingStream(t *testing.T) {
	handler := NewNotificationHandler(nil, nil)
	go handler.Run()

	first := &streamClient{send: make(chan []byte, 1), userID: 7}
	second := &streamClient{send: make(chan []byte, 1), userID: 7}

	handler.register <- first
	handler.register <- second

	select {
	case _, ok := <-first.send:
		assert.False(t, ok, "displaced client's send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("displaced client's send channel was not closed")
	}

	handler.clientsMutex.RLock()
	current := handler.clients[7]
	handler.clientsMutex.RUnlock()
	require.Same(t, second, current)

	// The displaced connection's read pump still reports itself; that must
	// not tear down the replacement stream.
	handler.unregister <- first

	assert.Eventually(t, func() bool {
		handler.clientsMutex.RLock()
		defer handler.clientsMutex.RUnlock()
		return handler.clients[7] == second
	}, time.Second, 10*time.Millisecond)

	select {
	case _, ok := <-second.send:
		assert.True(t, ok, "active client's send channel must stay open")
	default:
	}
}
