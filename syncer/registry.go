package syncer

import (
	"fmt"

	"github.com/vx-labs/sync-fabric/syncer/pb"
)

// Reporter produces the current snapshot of one local component.
type Reporter interface {
	Snapshot() *pb.SyncMessage
}

// Receiver consumes remote snapshots of one component.
type Receiver interface {
	Update(*pb.SyncMessage)
}

// registry holds the local component slots. Slots are bound once at startup
// and never rebound; Snapshot and Deliver run on the executor.
type registry struct {
	reporters [pb.ComponentCount]Reporter
	receivers [pb.ComponentCount]Receiver
	bound     [pb.ComponentCount]bool
}

func (r *registry) register(component pb.ComponentID, reporter Reporter, receiver Receiver) {
	if !pb.ValidComponent(component) {
		panic(fmt.Sprintf("invalid component id: %d", component))
	}
	if r.bound[component] {
		panic(fmt.Sprintf("component %s is already registered", component))
	}
	r.bound[component] = true
	r.reporters[component] = reporter
	r.receivers[component] = receiver
}

func (r *registry) deliver(message *pb.SyncMessage) {
	if !pb.ValidComponent(message.ComponentId) {
		return
	}
	receiver := r.receivers[message.ComponentId]
	if receiver == nil {
		return
	}
	receiver.Update(message)
}
