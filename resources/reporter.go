package resources

import (
	"bytes"
	"runtime"
	"time"

	"github.com/gogo/protobuf/proto"

	respb "github.com/vx-labs/sync-fabric/resources/pb"
	"github.com/vx-labs/sync-fabric/syncer/pb"
)

var now = func() uint64 {
	return uint64(time.Now().UnixNano())
}

func memUsage() runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

// Reporter snapshots the local process resource usage for the
// CLUSTER_RESOURCE component. Versions are wall-clock timestamps; a sample
// identical to the previous one yields no snapshot, so an idle node stays
// quiet on the wire.
type Reporter struct {
	nodeID      string
	lastPayload []byte
	lastVersion uint64
}

func NewReporter(nodeID string) *Reporter {
	return &Reporter{nodeID: nodeID}
}

func (r *Reporter) Snapshot() *pb.SyncMessage {
	m := memUsage()
	payload, err := proto.Marshal(&respb.NodeResources{
		Cores:      int64(runtime.NumCPU()),
		Goroutines: int64(runtime.NumGoroutine()),
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGc:      m.NumGC,
	})
	if err != nil {
		return nil
	}
	if bytes.Equal(payload, r.lastPayload) {
		return nil
	}
	r.lastPayload = payload
	version := now()
	if version <= r.lastVersion {
		version = r.lastVersion + 1
	}
	r.lastVersion = version
	return &pb.SyncMessage{
		OriginNodeId: []byte(r.nodeID),
		ComponentId:  pb.ComponentID_CLUSTER_RESOURCE,
		Version:      version,
		Payload:      payload,
	}
}
