package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	_ "google.golang.org/grpc/encoding/gzip" // register gzip so both directions can negotiate it
	"google.golang.org/grpc/status"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/delegate"
)

const (
	// ServiceName is the binary wire's fully-qualified service name.
	ServiceName = "a2a.v1.A2AService"

	// MethodSendMessage and MethodGetTask are the method paths clients dial.
	MethodSendMessage = "/a2a.v1.A2AService/SendMessage"
	MethodGetTask     = "/a2a.v1.A2AService/GetTask"

	// DefaultMaxMessageSize is the 4 MiB default both encoding and decoding
	// are bounded to unless a server overrides it.
	DefaultMaxMessageSize = 4 << 20
)

/*
Server is the binary transport: it exposes the service contract as the
named gRPC-shaped service "a2a.v1.A2AService", registered by hand against a
grpc.ServiceDesc rather than generated stubs (see Codec). Method dispatch
and wire decoding are grpc-go's; only the per-call business logic and the
A2AError-to-status mapping belong to this type.
*/
type Server struct {
	delegate *delegate.Delegate
}

// NewServer returns a binary-transport server dispatching to d.
func NewServer(d *delegate.Delegate) *Server {
	return &Server{delegate: d}
}

func (s *Server) sendMessage(ctx context.Context, req *a2a.SendMessageRequest) (*a2a.SendMessageResponse, error) {
	resp, err := s.delegate.SendMessage(ctx, req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return resp, nil
}

func (s *Server) getTask(ctx context.Context, req *a2a.GetTaskGrpcRequest) (*a2a.Task, error) {
	task, err := s.delegate.GetTask(ctx, &a2a.GetTaskRequest{
		ID:            a2a.NameToID(req.Name),
		HistoryLength: req.HistoryLength,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return task, nil
}

func sendMessageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(a2a.SendMessageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).sendMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSendMessage}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).sendMessage(ctx, req.(*a2a.SendMessageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getTaskHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(a2a.GetTaskGrpcRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).getTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetTask}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).getTask(ctx, req.(*a2a.GetTaskGrpcRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the hand-written equivalent of what protoc-gen-go-grpc
// would otherwise generate for "a2a.v1.A2AService": two unary methods, no
// streams. Unknown methods fall through to grpc-go's own Unimplemented
// handling.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendMessage", Handler: sendMessageHandler},
		{MethodName: "GetTask", Handler: getTaskHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "a2a/v1/a2a.proto",
}

// NewGRPCServer returns a *grpc.Server configured with this module's
// binary codec and the 4 MiB message-size defaults.
func NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.ForceServerCodec(Codec{}),
		grpc.MaxRecvMsgSize(DefaultMaxMessageSize),
		grpc.MaxSendMsgSize(DefaultMaxMessageSize),
	}
	return grpc.NewServer(append(base, opts...)...)
}

// Register attaches the A2A service to grpcServer, dispatching to d.
func Register(grpcServer *grpc.Server, d *delegate.Delegate) {
	grpcServer.RegisterService(&ServiceDesc, NewServer(d))
}

// toStatus maps an internal A2AError to the binary-wire status:
// TaskNotFound becomes NotFound with a "code" trailer metadata entry
// carrying its numeric error code, everything else becomes Internal.
func toStatus(ctx context.Context, err error) error {
	a2aErr := a2a.AsA2AError(err)
	if a2aErr == nil {
		return status.Error(codes.Internal, "unknown error")
	}

	if a2aErr.Protocol != nil {
		if a2aErr.Protocol.Code == a2a.ErrorCodeTaskNotFound {
			setErrorCodeTrailer(ctx, a2aErr.Protocol.Code)
			return status.Error(codes.NotFound, a2aErr.Protocol.Error())
		}
		return status.Error(codes.Internal, a2aErr.Protocol.Error())
	}

	return status.Error(codes.Internal, a2aErr.Error())
}
