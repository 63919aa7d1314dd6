package pb

//go:generate protoc -I${GOPATH}/src -I${GOPATH}/src/github.com/vx-labs/sync-fabric/syncer/pb/ --go_out=plugins=grpc:. syncer.proto

// ComponentCount is the number of component slots a node hosts. It tracks
// the ComponentID enum: an id outside [0, ComponentCount) has no local slot.
const ComponentCount = 3

// MetadataKey is the stream metadata header carrying the sender's node id.
const MetadataKey = "node_id"

func ValidComponent(id ComponentID) bool {
	return id >= 0 && int(id) < ComponentCount
}
