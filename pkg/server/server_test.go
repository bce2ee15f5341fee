package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/delegate"
	"github.com/theapemachine/a2a-rpc/pkg/queue"
	"github.com/theapemachine/a2a-rpc/pkg/rpc"
	"github.com/theapemachine/a2a-rpc/pkg/state"
)

type echoAgent struct{}

func (echoAgent) HandleMessage(ctx context.Context, message *a2a.Message, metadata a2a.Object, task *a2a.Task) (a2a.SendMessageResponse, error) {
	return a2a.MessageResponse(message), nil
}

func newTestDelegate() *delegate.Delegate {
	return delegate.New(state.NewStore(), queue.NewBoundedQueue(10), echoAgent{})
}

func TestStartBindsEphemeralPortsForEachEnabledTransport(t *testing.T) {
	Convey("Given a server configured for both transports on port 0", t, func() {
		srv := New(newTestDelegate(), Config{JSONRPCAddr: "127.0.0.1:0", GRPCAddr: "127.0.0.1:0"})

		Convey("When Start is called", func() {
			err := srv.Start()
			defer srv.Shutdown(context.Background())

			Convey("It binds and reports a distinct address for each transport", func() {
				So(err, ShouldBeNil)

				jsonAddr, ok := srv.LocalAddr(a2a.TransportJSONRPC)
				So(ok, ShouldBeTrue)
				So(jsonAddr.String(), ShouldNotBeBlank)

				grpcAddr, ok := srv.LocalAddr(a2a.TransportGRPC)
				So(ok, ShouldBeTrue)
				So(grpcAddr.String(), ShouldNotBeBlank)

				So(jsonAddr.String(), ShouldNotEqual, grpcAddr.String())
			})
		})
	})
}

func TestJSONRPCTransportServesAfterStart(t *testing.T) {
	Convey("Given a running server with only the JSON-RPC transport enabled", t, func() {
		srv := New(newTestDelegate(), Config{JSONRPCAddr: "127.0.0.1:0"})
		So(srv.Start(), ShouldBeNil)
		defer srv.Shutdown(context.Background())

		addr, _ := srv.LocalAddr(a2a.TransportJSONRPC)

		Convey("When a request is sent to its bound address", func() {
			resp, err := http.Get("http://" + addr.String() + "/rpc")

			Convey("It responds instead of refusing the connection", func() {
				So(err, ShouldBeNil)
				resp.Body.Close()
			})
		})
	})
}

func TestGRPCTransportServesAfterStart(t *testing.T) {
	Convey("Given a running server with only the binary transport enabled", t, func() {
		srv := New(newTestDelegate(), Config{GRPCAddr: "127.0.0.1:0"})
		So(srv.Start(), ShouldBeNil)
		defer srv.Shutdown(context.Background())

		addr, _ := srv.LocalAddr(a2a.TransportGRPC)

		Convey("When a client dials its bound address with the binary codec", func() {
			conn, err := grpc.NewClient(addr.String(),
				grpc.WithTransportCredentials(insecure.NewCredentials()),
				grpc.WithDefaultCallOptions(grpc.ForceCodec(rpc.Codec{})),
			)
			So(err, ShouldBeNil)
			defer conn.Close()

			var out a2a.Task
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			invokeErr := conn.Invoke(ctx, rpc.MethodGetTask, &a2a.GetTaskGrpcRequest{Name: "task/bogus"}, &out)

			Convey("It reaches the service and reports the task as not found", func() {
				So(invokeErr, ShouldNotBeNil)
				So(status.Code(invokeErr), ShouldEqual, codes.NotFound)
			})
		})
	})
}

func TestShutdownIsIdempotent(t *testing.T) {
	Convey("Given a running server", t, func() {
		srv := New(newTestDelegate(), Config{JSONRPCAddr: "127.0.0.1:0"})
		So(srv.Start(), ShouldBeNil)

		Convey("When Shutdown is called more than once", func() {
			err1 := srv.Shutdown(context.Background())
			err2 := srv.Shutdown(context.Background())

			Convey("Both calls return the same result without blocking or panicking", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
			})
		})
	})
}
