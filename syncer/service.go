package syncer

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vx-labs/sync-fabric/syncer/pb"
)

// Service adapts inbound sync streams to the syncer: it learns the peer's
// node id from the request metadata, advertises ours in the response header,
// and hands the stream to a hub-side reactor.
type Service struct {
	syncer *Syncer
	logger *zap.Logger
}

func NewService(s *Syncer) *Service {
	return &Service{
		syncer: s,
		logger: s.logger,
	}
}

func (s *Service) Serve(grpcServer *grpc.Server) {
	pb.RegisterSyncerServer(grpcServer, s)
}

func (s *Service) StartSync(stream pb.Syncer_StartSyncServer) error {
	md, ok := metadata.FromIncomingContext(stream.Context())
	if !ok {
		return status.Error(codes.InvalidArgument, "missing request metadata")
	}
	values := md.Get(pb.MetadataKey)
	if len(values) == 0 || len(values[0]) == 0 {
		s.logger.Warn("rejected sync stream without a node id")
		return status.Error(codes.InvalidArgument, "missing node_id metadata")
	}
	peer := values[0]
	if peer == s.syncer.NodeID() {
		return status.Error(codes.InvalidArgument, "a node must not follow itself")
	}
	err := stream.SendHeader(metadata.Pairs(pb.MetadataKey, s.syncer.NodeID()))
	if err != nil {
		return status.Error(codes.Internal, "failed to send response metadata")
	}
	r := s.syncer.Accept(peer, stream, nil)
	// Returning aborts the server stream, so hold the handler until the
	// reactor starts tearing down.
	<-r.Closing()
	return nil
}
