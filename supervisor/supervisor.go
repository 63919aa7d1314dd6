package supervisor

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/vx-labs/sync-fabric/events"
	"github.com/vx-labs/sync-fabric/network"
	"github.com/vx-labs/sync-fabric/syncer"
)

// Supervisor owns the follower side of the reconnection policy. The fabric
// layer never retries a broken stream; the supervisor dials the hub, calls
// Follow, waits for the link to drop, and dials again under exponential
// backoff.
type Supervisor struct {
	syncer  *syncer.Syncer
	bus     *events.Bus
	address string
	logger  *zap.Logger

	cancel chan struct{}
	done   chan struct{}
}

func New(s *syncer.Syncer, bus *events.Bus, address string, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		syncer:  s,
		bus:     bus,
		address: address,
		logger:  logger.WithOptions(zap.Fields(zap.String("hub_address", address))),
		cancel:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *Supervisor) Start() {
	go s.run()
}

func (s *Supervisor) Shutdown() {
	close(s.cancel)
	<-s.done
}

func (s *Supervisor) run() {
	defer close(s.done)
	ch, cancelSubscription := s.bus.Events()
	defer cancelSubscription()

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0

	conn, err := grpc.Dial(s.address, network.GRPCClientOptions()...)
	if err != nil {
		s.logger.Error("failed to create hub connection", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		err := s.syncer.Follow(context.Background(), conn, grpc.WaitForReady(false))
		if err != nil {
			s.logger.Warn("failed to follow hub", zap.Error(err))
			if !s.sleep(policy.NextBackOff()) {
				return
			}
			continue
		}
		policy.Reset()
		if !s.waitForDisconnect(ch) {
			return
		}
		s.logger.Info("hub link lost, scheduling reconnect")
		if !s.sleep(policy.NextBackOff()) {
			return
		}
	}
}

// waitForDisconnect blocks until the upstream link drops. Bus delivery is
// best-effort, so events are treated as wakeup hints and the syncer is
// re-checked periodically for the authoritative link state.
func (s *Supervisor) waitForDisconnect(ch <-chan events.Event) bool {
	check := time.NewTicker(time.Second)
	defer check.Stop()
	for {
		select {
		case <-s.cancel:
			return false
		case ev := <-ch:
			if ev.Kind == events.PeerDown && s.syncer.Leader() == "" {
				return true
			}
		case <-check.C:
			if s.syncer.Leader() == "" {
				return true
			}
		}
	}
}

func (s *Supervisor) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-s.cancel:
		return false
	case <-timer.C:
		return true
	}
}
