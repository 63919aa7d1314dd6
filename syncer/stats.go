package syncer

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type statistics struct {
	sentBatches      prometheus.Counter
	sentMessages     prometheus.Counter
	receivedMessages prometheus.Counter
	staleMessages    prometheus.Counter
	peers            prometheus.Gauge
}

var (
	statsOnce   sync.Once
	fabricStats *statistics
)

// newStatistics returns the process-wide fabric metrics. Several syncers in
// one process (tests) share them.
func newStatistics() *statistics {
	statsOnce.Do(func() {
		fabricStats = registerStatistics()
	})
	return fabricStats
}

func registerStatistics() *statistics {
	s := &statistics{
		sentBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sync_fabric",
			Name:      "sent_batches_total",
			Help:      "Total number of message batches written to peer links.",
		}),
		sentMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sync_fabric",
			Name:      "sent_messages_total",
			Help:      "Total number of messages written to peer links.",
		}),
		receivedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sync_fabric",
			Name:      "received_messages_total",
			Help:      "Total number of messages integrated from peer links.",
		}),
		staleMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sync_fabric",
			Name:      "stale_messages_total",
			Help:      "Total number of messages discarded because the same or a newer version was known.",
		}),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sync_fabric",
			Name:      "connected_peers",
			Help:      "Current number of connected peer links.",
		}),
	}
	prometheus.MustRegister(
		s.sentBatches,
		s.sentMessages,
		s.receivedMessages,
		s.staleMessages,
		s.peers,
	)
	return s
}
