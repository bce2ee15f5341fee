package client

import (
	"context"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
)

/*
Client is a tagged union over the two transports: exactly one of
jsonrpc or grpc is populated, selected at construction by the requested
a2a.Transport. Callers see one SendMessage/GetTask surface regardless of
which wire carries it, and every transport-specific error is already
normalized to *a2a.A2AError by the time it reaches them.
*/
type Client struct {
	transport a2a.Transport
	jsonrpc   *JSONRPCClient
	grpc      *GRPCClient
}

// New dials addr over transport. For a2a.TransportJSONRPC, addr is the
// base URL the textual server listens on (e.g. "http://127.0.0.1:8080").
// For a2a.TransportGRPC, addr is the host:port the binary server listens
// on.
func New(transport a2a.Transport, addr string) (*Client, error) {
	switch transport {
	case a2a.TransportJSONRPC:
		return &Client{transport: transport, jsonrpc: NewJSONRPCClient(addr)}, nil
	case a2a.TransportGRPC:
		g, err := NewGRPCClient(addr)
		if err != nil {
			return nil, err
		}
		return &Client{transport: transport, grpc: g}, nil
	default:
		return nil, a2a.FromProtocolError(a2a.ErrUnsupportedOperation())
	}
}

func (c *Client) SendMessage(ctx context.Context, req *a2a.SendMessageRequest) (*a2a.SendMessageResponse, error) {
	switch c.transport {
	case a2a.TransportGRPC:
		return c.grpc.SendMessage(ctx, req)
	default:
		return c.jsonrpc.SendMessage(ctx, req)
	}
}

func (c *Client) GetTask(ctx context.Context, req *a2a.GetTaskRequest) (*a2a.Task, error) {
	switch c.transport {
	case a2a.TransportGRPC:
		return c.grpc.GetTask(ctx, req)
	default:
		return c.jsonrpc.GetTask(ctx, req)
	}
}

// Close releases any transport-level connection resources. It is a no-op
// for the JSON-RPC leg, which holds no persistent connection.
func (c *Client) Close() error {
	if c.grpc != nil {
		return c.grpc.Close()
	}
	return nil
}
