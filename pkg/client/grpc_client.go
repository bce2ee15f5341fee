package client

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	aerrors "github.com/theapemachine/a2a-rpc/pkg/errors"
	"github.com/theapemachine/a2a-rpc/pkg/rpc"
)

/*
GRPCClient speaks the binary wire: it dials addr with this module's
"a2abin" codec forced on every call (see rpc.Codec) instead of protobuf,
and reverses rpc.toStatus's status mapping back into an *a2a.A2AError via
rpc.FromStatus.
*/
type GRPCClient struct {
	conn *grpc.ClientConn
}

// NewGRPCClient dials addr (host:port) insecurely; a production
// deployment would supply TLS credentials instead.
func NewGRPCClient(addr string) (*GRPCClient, error) {
	var conn *grpc.ClientConn

	dial := func() error {
		c, err := grpc.NewClient(addr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultCallOptions(
				grpc.ForceCodec(rpc.Codec{}),
				grpc.UseCompressor(gzip.Name),
				grpc.MaxCallRecvMsgSize(rpc.DefaultMaxMessageSize),
				grpc.MaxCallSendMsgSize(rpc.DefaultMaxMessageSize),
			),
		)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	if err := aerrors.RetryWithBackoff(aerrors.DefaultRetryConfig(), dial); err != nil {
		return nil, a2a.FromTransportError(a2a.ErrIoFailure(err))
	}
	return &GRPCClient{conn: conn}, nil
}

func (c *GRPCClient) SendMessage(ctx context.Context, req *a2a.SendMessageRequest) (*a2a.SendMessageResponse, error) {
	var trailer metadata.MD
	out := new(a2a.SendMessageResponse)
	err := c.conn.Invoke(ctx, rpc.MethodSendMessage, req, out, grpc.Trailer(&trailer))
	if err != nil {
		return nil, reverseGRPCError(err, trailer)
	}
	return out, nil
}

func (c *GRPCClient) GetTask(ctx context.Context, req *a2a.GetTaskRequest) (*a2a.Task, error) {
	var trailer metadata.MD
	grpcReq := a2a.GetTaskRequestToGrpc(*req)
	out := new(a2a.Task)
	err := c.conn.Invoke(ctx, rpc.MethodGetTask, grpcReq, out, grpc.Trailer(&trailer))
	if err != nil {
		return nil, reverseGRPCError(err, trailer)
	}
	return out, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func reverseGRPCError(err error, trailer metadata.MD) error {
	st, ok := status.FromError(err)
	if !ok {
		return a2a.FromTransportError(a2a.ErrIoFailure(err))
	}
	return rpc.FromStatus(st, trailer)
}
