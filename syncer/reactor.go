package syncer

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vx-labs/sync-fabric/syncer/pb"
)

// DefaultCooldown is the delay between successive writes on a link. It
// bounds outbound traffic per link and gives ingestion time to coalesce
// updates.
const DefaultCooldown = 100 * time.Millisecond

type messageStream interface {
	Send(*pb.SyncMessageBatch) error
	Recv() (*pb.SyncMessageBatch, error)
}

// reactor drives one bidirectional sync stream. Hub-side and follower-side
// links share it; the role only decides how the peer id was learned and how
// the underlying stream is aborted (the finish hook).
type reactor struct {
	syncer   *Syncer
	peer     string
	stream   messageStream
	cooldown time.Duration
	logger   *zap.Logger
	finish   func()

	closing sync.Once
	cancel  chan struct{}
	done    chan struct{}
}

func newReactor(s *Syncer, peer string, stream messageStream, finish func()) *reactor {
	return &reactor{
		syncer:   s,
		peer:     peer,
		stream:   stream,
		cooldown: s.cooldown,
		logger: s.logger.WithOptions(zap.Fields(
			zap.String("peer_id", peer),
		)),
		finish: finish,
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (r *reactor) start() {
	readerDone := make(chan struct{})
	writerDone := make(chan struct{})
	go r.readLoop(readerDone)
	go r.writeLoop(writerDone)
	go func() {
		<-readerDone
		<-writerDone
		close(r.done)
	}()
}

// Done is closed once both loops have exited.
func (r *reactor) Done() <-chan struct{} {
	return r.done
}

// Closing is closed as soon as teardown begins. The service handler uses it
// to return and abort the underlying server stream.
func (r *reactor) Closing() <-chan struct{} {
	return r.cancel
}

// Finish asks the reactor to tear the stream down. Used when a reconnecting
// peer displaces this reactor.
func (r *reactor) Finish() {
	r.teardown(nil)
}

func (r *reactor) readLoop(done chan struct{}) {
	defer close(done)
	for {
		batch, err := r.stream.Recv()
		if err != nil {
			r.teardown(err)
			return
		}
		messages := batch.SyncMessages
		r.syncer.executor.Dispatch("syncer.ingest", func() {
			r.syncer.ingestBatch(r.peer, messages)
		})
	}
}

// writeLoop alternates between collect-and-send and cool-down. Snapshot
// collection and store draining run on the executor; the blocking Send does
// not.
func (r *reactor) writeLoop(done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-r.cancel:
			return
		case <-timer.C:
		}
		var batch []*pb.SyncMessage
		r.syncer.executor.Call("syncer.collect", func() {
			// a displaced reactor must not drain its successor's queue
			select {
			case <-r.cancel:
				return
			default:
			}
			r.syncer.collectSnapshots()
			batch = r.syncer.store.DrainFor(r.peer)
		})
		if len(batch) > 0 {
			out := &pb.SyncMessageBatch{SyncMessages: batch}
			if err := r.stream.Send(out); err != nil {
				r.teardown(err)
				return
			}
			r.syncer.stats.sentBatches.Inc()
			r.syncer.stats.sentMessages.Add(float64(len(batch)))
		}
		timer.Reset(r.cooldown)
	}
}

// teardown runs once, from whichever side observed stream completion first.
// Removal from the peer table and the store is posted to the executor to
// serialize with in-flight callbacks.
func (r *reactor) teardown(err error) {
	r.closing.Do(func() {
		if err != nil && !isStreamClosed(err) {
			r.logger.Warn("sync stream failed", zap.Error(err))
		} else {
			r.logger.Info("sync stream closed")
		}
		close(r.cancel)
		if r.finish != nil {
			r.finish()
		}
		r.syncer.executor.Dispatch("syncer.detach", func() {
			r.syncer.detach(r.peer, r)
		})
	})
}
