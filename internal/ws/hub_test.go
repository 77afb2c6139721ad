package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/protocol"
	"github.com/lcastelli/motdepasse-server/internal/testutil"
)

func testClient(id model.PlayerID) *Client {
	return &Client{
		playerID: id,
		logger:   testutil.NopLogger(),
		send:     make(chan []byte, sendBufferSize),
	}
}

func receivedEvent(t *testing.T, c *Client) protocol.Envelope {
	t.Helper()
	select {
	case frame := <-c.send:
		env, err := protocol.Decode(frame)
		require.NoError(t, err)
		return env
	default:
		t.Fatal("no frame queued")
		return protocol.Envelope{}
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := testClient("a")
	b := testClient("b")
	hub.register(a)
	hub.register(b)

	hub.Broadcast(protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: 9})

	for _, c := range []*Client{a, b} {
		env := receivedEvent(t, c)
		assert.Equal(t, protocol.EventTimerTick, env.Event)
	}
}

func TestUnicastReachesOnlyTarget(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := testClient("a")
	b := testClient("b")
	hub.register(a)
	hub.register(b)

	hub.Unicast("a", protocol.EventCurrentWord, protocol.CurrentWordPayload{Word: "chat"})

	env := receivedEvent(t, a)
	assert.Equal(t, protocol.EventCurrentWord, env.Event)
	assert.Empty(t, b.send)
}

func TestUnicastUnknownRecipientDropped(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	// Must not panic or block
	hub.Unicast("ghost", protocol.EventCurrentWord, protocol.CurrentWordPayload{Word: "chat"})
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := testClient("a")
	hub.register(a)
	hub.unregister(a)

	hub.Broadcast(protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: 9})
	assert.Empty(t, a.send)
}

func TestUnregisterIgnoresReplacedClient(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	old := testClient("a")
	replacement := testClient("a")
	hub.register(old)
	hub.register(replacement)

	// Unregistering the stale connection must not evict the new one
	hub.unregister(old)
	hub.Broadcast(protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: 9})
	assert.NotEmpty(t, replacement.send)
}

func TestSlowClientDropped(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	slow := testClient("slow")
	hub.register(slow)

	// Fill the buffer, then one more
	for i := 0; i <= sendBufferSize; i++ {
		hub.Broadcast(protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: i})
	}

	// The overflow is dropped; the buffered frames are untouched
	assert.Equal(t, sendBufferSize, len(slow.send))
	assert.True(t, slow.closed)
}

func TestBroadcastAfterSlowClientDropped(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	slow := testClient("slow")
	healthy := testClient("healthy")
	hub.register(slow)
	hub.register(healthy)

	for i := 0; i <= sendBufferSize; i++ {
		hub.Unicast("slow", protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: i})
	}
	assert.True(t, slow.closed)

	// The dropped client stays registered until its read pump exits;
	// further fan-out must neither panic nor queue to it
	hub.Broadcast(protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: 1})
	hub.Unicast("slow", protocol.EventCurrentWord, protocol.CurrentWordPayload{Word: "chat"})

	assert.Equal(t, sendBufferSize, len(slow.send))
	env := receivedEvent(t, healthy)
	assert.Equal(t, protocol.EventTimerTick, env.Event)
}

func TestCloseAfterDropIsSafe(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	slow := testClient("slow")
	hub.register(slow)

	for i := 0; i <= sendBufferSize; i++ {
		hub.Broadcast(protocol.EventTimerTick, protocol.TimerTickPayload{TimeLeft: i})
	}

	// Disconnect teardown after a drop closes the queue exactly once
	hub.unregister(slow)
	slow.close()
	slow.close()

	drained := 0
	for range slow.send {
		drained++
	}
	assert.Equal(t, sendBufferSize, drained)
}
