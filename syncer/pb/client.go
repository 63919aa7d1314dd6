package pb

import (
	context "context"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type Client struct {
	api SyncerClient
}

func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{
		api: NewSyncerClient(conn),
	}
}

// StartSync opens the sync stream, advertising nodeID in the request
// metadata, and returns the stream together with the hub's node id read from
// the response header.
func (c *Client) StartSync(ctx context.Context, nodeID string, opts ...grpc.CallOption) (Syncer_StartSyncClient, string, error) {
	if len(nodeID) == 0 {
		return nil, "", errors.New("invalid node id")
	}
	ctx = metadata.AppendToOutgoingContext(ctx, MetadataKey, nodeID)
	stream, err := c.api.StartSync(ctx, opts...)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to open sync stream")
	}
	header, err := stream.Header()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read sync stream header")
	}
	values := header.Get(MetadataKey)
	if len(values) == 0 {
		return nil, "", errors.New("sync stream header is missing the hub node id")
	}
	return stream, values[0], nil
}
