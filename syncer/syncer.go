package syncer

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vx-labs/sync-fabric/events"
	"github.com/vx-labs/sync-fabric/executor"
	"github.com/vx-labs/sync-fabric/syncer/pb"
	"github.com/vx-labs/sync-fabric/syncer/store"
)

// Syncer keeps a best-effort replicated view of component snapshots across
// the cluster. One node acts as the hub and accepts follower streams; every
// other node follows the hub over a single upstream stream. Reporters feed
// local snapshots in, receivers observe remote ones.
type Syncer struct {
	nodeID   string
	cooldown time.Duration
	logger   *zap.Logger
	executor *executor.Executor
	bus      *events.Bus
	store    *store.MessageStore
	registry *registry
	stats    *statistics

	// executor-guarded
	followers map[string]*reactor
	leader    *reactor
}

type Option func(*Syncer)

// WithCooldown overrides the write cool-down period of every link.
func WithCooldown(d time.Duration) Option {
	return func(s *Syncer) {
		s.cooldown = d
	}
}

func New(nodeID string, exec *executor.Executor, bus *events.Bus, logger *zap.Logger, opts ...Option) *Syncer {
	if len(nodeID) == 0 {
		panic("syncer: empty node id")
	}
	s := &Syncer{
		nodeID:    nodeID,
		cooldown:  DefaultCooldown,
		logger:    logger.WithOptions(zap.Fields(zap.String("node_id", nodeID))),
		executor:  exec,
		bus:       bus,
		store:     store.NewMessageStore(bus),
		registry:  &registry{},
		stats:     newStatistics(),
		followers: map[string]*reactor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) NodeID() string {
	return s.nodeID
}

// Register binds the reporter and receiver for one component slot. Binding
// the same slot twice is a programming error. Register must happen before
// Follow or Accept for components whose snapshots should be synchronized
// from startup.
func (s *Syncer) Register(component pb.ComponentID, reporter Reporter, receiver Receiver) {
	s.executor.Call("syncer.register", func() {
		s.registry.register(component, reporter, receiver)
	})
}

// Update integrates a single message on behalf of from.
func (s *Syncer) Update(from string, message *pb.SyncMessage) {
	s.executor.Dispatch("syncer.update", func() {
		s.ingest(from, message)
	})
}

// UpdateBatch integrates every message of a batch on behalf of from.
func (s *Syncer) UpdateBatch(from string, batch *pb.SyncMessageBatch) {
	if batch == nil {
		return
	}
	messages := batch.SyncMessages
	s.executor.Dispatch("syncer.update", func() {
		s.ingestBatch(from, messages)
	})
}

// SyncMessages drains every message currently queued for the given peer.
func (s *Syncer) SyncMessages(peer string) []*pb.SyncMessage {
	var out []*pb.SyncMessage
	s.executor.Call("syncer.drain", func() {
		out = s.store.DrainFor(peer)
	})
	return out
}

// Followers lists the node ids of the followers currently attached to this
// hub.
func (s *Syncer) Followers() []string {
	out := []string{}
	s.executor.Call("syncer.followers", func() {
		for peer := range s.followers {
			out = append(out, peer)
		}
	})
	return out
}

// Leader returns the node id of the hub this syncer follows, or an empty
// string.
func (s *Syncer) Leader() string {
	leader := ""
	s.executor.Call("syncer.leader", func() {
		if s.leader != nil {
			leader = s.leader.peer
		}
	})
	return leader
}

// Follow establishes the upstream link to the hub reachable through conn.
// At most one upstream link may be live at a time.
func (s *Syncer) Follow(ctx context.Context, conn *grpc.ClientConn, opts ...grpc.CallOption) error {
	streamCtx, abort := context.WithCancel(ctx)
	stream, hub, err := pb.NewClient(conn).StartSync(streamCtx, s.nodeID, opts...)
	if err != nil {
		abort()
		return err
	}
	if hub == s.nodeID {
		abort()
		return errors.New("refusing to follow self")
	}
	r := newReactor(s, hub, stream, abort)
	s.executor.Call("syncer.follow", func() {
		if s.leader != nil {
			err = errors.Errorf("already following %s", s.leader.peer)
			return
		}
		s.leader = r
		s.store.AddViewer(hub)
		s.stats.peers.Inc()
	})
	if err != nil {
		abort()
		return err
	}
	s.logger.Info("started to follow hub", zap.String("peer_id", hub))
	r.start()
	return nil
}

// Accept attaches a hub-side reactor for an inbound follower stream. A
// reconnecting peer displaces the previous reactor under the same id, which
// is asked to finish.
func (s *Syncer) Accept(peer string, stream messageStream, finish func()) *reactor {
	r := newReactor(s, peer, stream, finish)
	s.executor.Call("syncer.accept", func() {
		if old, ok := s.followers[peer]; ok {
			s.logger.Info("displacing previous follower stream", zap.String("peer_id", peer))
			old.Finish()
		} else {
			s.stats.peers.Inc()
		}
		s.followers[peer] = r
		s.store.AddViewer(peer)
	})
	s.logger.Info("accepted follower", zap.String("peer_id", peer))
	r.start()
	return r
}

// DumpState returns, for every viewer, the queued (origin, component) ->
// version entries.
func (s *Syncer) DumpState() []store.DumpEntry {
	var out []store.DumpEntry
	s.executor.Call("syncer.dump", func() {
		out = s.store.Dump()
	})
	return out
}

// LogState writes the diagnostic dump to the logger.
func (s *Syncer) LogState() {
	for _, entry := range s.DumpState() {
		s.logger.Info("queued message",
			zap.String("viewer_id", entry.Viewer),
			zap.String("origin_id", entry.Origin),
			zap.Int32("component_id", entry.Component),
			zap.Uint64("message_version", entry.Version),
		)
	}
}

// Close finishes every live link. The executor is left running; it is owned
// by the caller.
func (s *Syncer) Close() {
	var reactors []*reactor
	s.executor.Call("syncer.close", func() {
		if s.leader != nil {
			reactors = append(reactors, s.leader)
		}
		for _, r := range s.followers {
			reactors = append(reactors, r)
		}
	})
	for _, r := range reactors {
		r.Finish()
		<-r.Done()
	}
}

// ingest runs on the executor.
func (s *Syncer) ingest(from string, message *pb.SyncMessage) {
	fresh := s.store.Ingest(from, message)
	if !fresh {
		if message != nil && pb.ValidComponent(message.ComponentId) {
			s.stats.staleMessages.Inc()
		}
		return
	}
	if from != s.nodeID {
		s.stats.receivedMessages.Inc()
		s.registry.deliver(message)
	}
}

// ingestBatch runs on the executor.
func (s *Syncer) ingestBatch(from string, messages []*pb.SyncMessage) {
	for _, message := range messages {
		s.ingest(from, message)
	}
}

// collectSnapshots queries every bound reporter and integrates the result
// as a self-origin update. Runs on the executor.
func (s *Syncer) collectSnapshots() {
	for i := 0; i < pb.ComponentCount; i++ {
		reporter := s.registry.reporters[i]
		if reporter == nil {
			continue
		}
		snapshot := reporter.Snapshot()
		if snapshot == nil {
			continue
		}
		s.ingest(s.nodeID, snapshot)
	}
}

// detach runs on the executor once a reactor has torn down. The identity
// check keeps a displaced reactor from disturbing its successor's state.
func (s *Syncer) detach(peer string, r *reactor) {
	if s.leader == r {
		s.leader = nil
		s.store.RemoveViewer(peer)
		s.stats.peers.Dec()
		return
	}
	if current, ok := s.followers[peer]; ok && current == r {
		delete(s.followers, peer)
		s.store.RemoveViewer(peer)
		s.stats.peers.Dec()
	}
}

func isStreamClosed(err error) bool {
	if err == io.EOF || err == context.Canceled {
		return true
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Canceled, codes.Unavailable:
			return true
		}
	}
	return false
}
