package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vx-labs/sync-fabric/events"
	"github.com/vx-labs/sync-fabric/syncer/pb"
)

const (
	self  = "node-a"
	peerB = "node-b"
	peerC = "node-c"
)

func message(origin string, component pb.ComponentID, version uint64) *pb.SyncMessage {
	return &pb.SyncMessage{
		OriginNodeId: []byte(origin),
		ComponentId:  component,
		Version:      version,
		Payload:      []byte{byte(version)},
	}
}

func TestMessageStore(t *testing.T) {
	s := NewMessageStore(events.NewBus())
	s.AddViewer(peerB)
	s.AddViewer(peerC)

	t.Run("ingest queues for every viewer but origin and sender", func(t *testing.T) {
		require.True(t, s.Ingest(self, message(self, pb.ComponentID_RESOURCE_MANAGER, 1)))
		assert.Equal(t, 1, s.PendingFor(peerB))
		assert.Equal(t, 1, s.PendingFor(peerC))
	})

	t.Run("stale versions are discarded", func(t *testing.T) {
		require.False(t, s.Ingest(self, message(self, pb.ComponentID_RESOURCE_MANAGER, 1)))
		require.False(t, s.Ingest(peerB, message(self, pb.ComponentID_RESOURCE_MANAGER, 0)))
		assert.Equal(t, 1, s.PendingFor(peerB))
	})

	t.Run("newer versions coalesce in place", func(t *testing.T) {
		require.True(t, s.Ingest(self, message(self, pb.ComponentID_RESOURCE_MANAGER, 2)))
		require.True(t, s.Ingest(self, message(self, pb.ComponentID_RESOURCE_MANAGER, 5)))
		assert.Equal(t, 1, s.PendingFor(peerB))
		batch := s.DrainFor(peerB)
		require.Equal(t, 1, len(batch))
		assert.Equal(t, uint64(5), batch[0].Version)
	})

	t.Run("drain is idempotent", func(t *testing.T) {
		assert.Equal(t, 0, len(s.DrainFor(peerB)))
	})

	t.Run("no echo to origin", func(t *testing.T) {
		s.AddViewer(self)
		require.True(t, s.Ingest(peerB, message(peerB, pb.ComponentID_SCHEDULER, 1)))
		for _, m := range s.DrainFor(peerB) {
			assert.NotEqual(t, peerB, string(m.OriginNodeId))
		}
		s.RemoveViewer(self)
	})

	t.Run("no back echo to sender", func(t *testing.T) {
		require.True(t, s.Ingest(peerB, message(peerC, pb.ComponentID_SCHEDULER, 3)))
		assert.Equal(t, 0, s.PendingFor(peerB))
	})

	t.Run("unknown component ids are dropped", func(t *testing.T) {
		assert.False(t, s.Ingest(self, message(self, pb.ComponentID(42), 9)))
	})

	t.Run("remove viewer drops its queue", func(t *testing.T) {
		require.True(t, s.Ingest(self, message(self, pb.ComponentID_CLUSTER_RESOURCE, 1)))
		require.True(t, s.PendingFor(peerC) > 0)
		s.RemoveViewer(peerC)
		assert.False(t, s.HasViewer(peerC))
		assert.Equal(t, 0, s.PendingFor(peerC))
		require.True(t, s.Ingest(self, message(self, pb.ComponentID_CLUSTER_RESOURCE, 2)))
		assert.Equal(t, 0, s.PendingFor(peerC))
	})

	t.Run("re-adding a viewer reseeds it with current state", func(t *testing.T) {
		require.True(t, s.Ingest(self, message(self, pb.ComponentID_SCHEDULER, 10)))
		s.AddViewer(peerB)
		refresh := s.DrainFor(peerB)
		require.True(t, len(refresh) > 0)
		for _, m := range refresh {
			assert.NotEqual(t, peerB, string(m.OriginNodeId))
			if string(m.OriginNodeId) == self && m.ComponentId == pb.ComponentID_SCHEDULER {
				assert.Equal(t, uint64(10), m.Version)
			}
		}
	})

	t.Run("a new viewer receives the full current state", func(t *testing.T) {
		s.AddViewer("node-late")
		refresh := s.DrainFor("node-late")
		require.True(t, len(refresh) > 0)
		for _, m := range refresh {
			assert.NotEqual(t, "node-late", string(m.OriginNodeId))
		}
		s.RemoveViewer("node-late")
	})
}

func TestMessageStoreBounds(t *testing.T) {
	s := NewMessageStore(events.NewBus())
	s.AddViewer(peerB)
	origins := []string{self, peerC, "node-d"}
	for version := uint64(1); version <= 50; version++ {
		for _, origin := range origins {
			for component := 0; component < pb.ComponentCount; component++ {
				s.Ingest(self, message(origin, pb.ComponentID(component), version))
			}
		}
	}
	// one pending entry per (origin, component), origin node-b excluded
	assert.True(t, s.PendingFor(peerB) <= len(origins)*pb.ComponentCount)
	for _, m := range s.DrainFor(peerB) {
		assert.Equal(t, uint64(50), m.Version)
	}
}

func TestMessageStoreDump(t *testing.T) {
	s := NewMessageStore(events.NewBus())
	s.AddViewer(peerB)
	require.True(t, s.Ingest(self, message(self, pb.ComponentID_RESOURCE_MANAGER, 7)))
	dump := s.Dump()
	require.Equal(t, 1, len(dump))
	assert.Equal(t, peerB, dump[0].Viewer)
	assert.Equal(t, self, dump[0].Origin)
	assert.Equal(t, uint64(7), dump[0].Version)
}

func TestMessageStoreEvents(t *testing.T) {
	bus := events.NewBus()
	s := NewMessageStore(bus)
	ch, cancel := bus.Events()
	defer cancel()
	s.AddViewer(peerB)
	ev := <-ch
	assert.Equal(t, events.PeerUp, ev.Kind)
	assert.Equal(t, peerB, ev.Peer)
	s.RemoveViewer(peerB)
	ev = <-ch
	assert.Equal(t, events.PeerDown, ev.Kind)
}
