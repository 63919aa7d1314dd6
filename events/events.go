package events

import (
	"sync/atomic"
	"unsafe"

	"github.com/google/uuid"
	iradix "github.com/hashicorp/go-immutable-radix"
)

type EventKind int

const (
	PeerUp EventKind = iota
	PeerDown
)

// Event describes a link lifecycle transition: a peer stream opened (PeerUp)
// or terminated (PeerDown).
type Event struct {
	Kind EventKind
	Peer string
}

type CancelFunc func()

const subscriptionBuffer = 16

// Bus fans peer lifecycle events out to subscribers. It is built for a
// single emitter running on the fabric executor: Emit is best-effort and
// never blocks, so a slow subscriber costs events, never executor time.
// Subscribers treat a wakeup as a hint and re-check the syncer for the
// authoritative state.
type Bus struct {
	subscriptions *iradix.Tree
}

func NewBus() *Bus {
	return &Bus{
		subscriptions: iradix.New(),
	}
}

// Emit delivers ev to every subscriber whose buffer has room and drops it
// for the others.
func (b *Bus) Emit(ev Event) {
	b.subscriptions.Root().Walk(func(_ []byte, v interface{}) bool {
		select {
		case v.(chan Event) <- ev:
		default:
		}
		return false
	})
}

// Events subscribes to the bus. The returned channel is never closed; after
// cancellation it simply stops receiving.
func (b *Bus) Events() (<-chan Event, CancelFunc) {
	ch := make(chan Event, subscriptionBuffer)
	id := []byte(uuid.New().String())
	b.update(func(tree *iradix.Tree) *iradix.Tree {
		next, _, _ := tree.Insert(id, ch)
		return next
	})
	cancel := func() {
		b.update(func(tree *iradix.Tree) *iradix.Tree {
			next, _, _ := tree.Delete(id)
			return next
		})
	}
	return ch, cancel
}

func (b *Bus) update(apply func(*iradix.Tree) *iradix.Tree) {
	ptr := (*unsafe.Pointer)(unsafe.Pointer(&b.subscriptions))
	for {
		old := b.subscriptions
		next := apply(old)
		if atomic.CompareAndSwapPointer(ptr, unsafe.Pointer(old), unsafe.Pointer(next)) {
			return
		}
	}
}
