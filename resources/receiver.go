package resources

import (
	"github.com/gogo/protobuf/proto"
	"go.uber.org/zap"

	respb "github.com/vx-labs/sync-fabric/resources/pb"
	"github.com/vx-labs/sync-fabric/syncer/pb"
)

// Receiver logs the resource usage reported by remote nodes.
type Receiver struct {
	logger *zap.Logger
}

func NewReceiver(logger *zap.Logger) *Receiver {
	return &Receiver{logger: logger}
}

func (r *Receiver) Update(message *pb.SyncMessage) {
	usage := respb.NodeResources{}
	err := proto.Unmarshal(message.Payload, &usage)
	if err != nil {
		r.logger.Warn("failed to decode node resources payload",
			zap.String("origin_id", string(message.OriginNodeId)),
			zap.Error(err))
		return
	}
	r.logger.Info("node resources updated",
		zap.String("origin_id", string(message.OriginNodeId)),
		zap.Uint64("message_version", message.Version),
		zap.Int64("node_cores", usage.Cores),
		zap.Int64("node_goroutines", usage.Goroutines),
		zap.Uint64("node_mem_alloc", usage.Alloc),
		zap.Uint64("node_mem_sys", usage.Sys),
		zap.Uint32("node_gc_count", usage.NumGc),
	)
}
