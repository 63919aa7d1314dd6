package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Events()

	bus.Emit(Event{Kind: PeerUp, Peer: "node-a"})
	ev := <-ch
	assert.Equal(t, PeerUp, ev.Kind)
	assert.Equal(t, "node-a", ev.Peer)

	cancel()
	bus.Emit(Event{Kind: PeerDown, Peer: "node-a"})
	select {
	case ev := <-ch:
		t.Fatalf("received event after cancellation: %v", ev)
	default:
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()
	first, cancelFirst := bus.Events()
	second, cancelSecond := bus.Events()
	defer cancelFirst()
	defer cancelSecond()

	bus.Emit(Event{Kind: PeerDown, Peer: "node-b"})
	assert.Equal(t, "node-b", (<-first).Peer)
	assert.Equal(t, "node-b", (<-second).Peer)
}

func TestBusEmitNeverBlocks(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Events()
	defer cancel()

	// nobody is reading: emission past the buffer must drop, not block
	for i := 0; i < 10*subscriptionBuffer; i++ {
		bus.Emit(Event{Kind: PeerUp, Peer: "node-a"})
	}
	require.Equal(t, subscriptionBuffer, len(ch))

	// a subscriber that drained its buffer receives fresh events again
	for len(ch) > 0 {
		<-ch
	}
	bus.Emit(Event{Kind: PeerDown, Peer: "node-a"})
	assert.Equal(t, PeerDown, (<-ch).Kind)
}
