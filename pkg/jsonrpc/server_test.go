package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/delegate"
	"github.com/theapemachine/a2a-rpc/pkg/queue"
	"github.com/theapemachine/a2a-rpc/pkg/state"
)

type echoAgent struct{}

func (echoAgent) HandleMessage(ctx context.Context, message *a2a.Message, metadata a2a.Object, task *a2a.Task) (a2a.SendMessageResponse, error) {
	return a2a.MessageResponse(message), nil
}

func newTestServer() *Server {
	d := delegate.New(state.NewStore(), queue.NewBoundedQueue(10), echoAgent{})
	return NewServer(d)
}

func post(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServeHTTPSendMessage(t *testing.T) {
	Convey("Given a jsonrpc server over an echoing agent", t, func() {
		srv := newTestServer()

		Convey("When a message/send request is posted", func() {
			rec := post(t, srv, `{
				"jsonrpc":"2.0",
				"id":"1",
				"method":"message/send",
				"params":{"message":{"role":"user","parts":[{"kind":"text","text":"hi"}]}}
			}`)

			Convey("It responds with a message result", func() {
				var resp RPCResponse
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Error, ShouldBeNil)
				So(resp.Result, ShouldNotBeNil)
			})
		})
	})
}

func TestServeHTTPGetTaskNotFound(t *testing.T) {
	Convey("Given a jsonrpc server with no tasks", t, func() {
		srv := newTestServer()

		Convey("When tasks/get is called with an unknown id", func() {
			rec := post(t, srv, `{
				"jsonrpc":"2.0",
				"id":"2",
				"method":"tasks/get",
				"params":{"id":"bogus"}
			}`)

			Convey("It responds with error code -32001", func() {
				var resp RPCResponse
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Error, ShouldNotBeNil)
				So(resp.Error.Code, ShouldEqual, -32001)
			})
		})
	})
}

func TestServeHTTPUnknownMethod(t *testing.T) {
	Convey("Given a jsonrpc server", t, func() {
		srv := newTestServer()

		Convey("When an unknown method is called", func() {
			rec := post(t, srv, `{"jsonrpc":"2.0","id":"3","method":"tasks/cancel","params":{}}`)

			Convey("It responds with Method not found", func() {
				var resp RPCResponse
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Error, ShouldNotBeNil)
				So(resp.Error.Code, ShouldEqual, -32601)
			})
		})
	})
}

func TestServeHTTPNotification(t *testing.T) {
	Convey("Given a jsonrpc server", t, func() {
		srv := newTestServer()

		Convey("When a request with no id (a notification) is sent", func() {
			rec := post(t, srv, `{
				"jsonrpc":"2.0",
				"method":"message/send",
				"params":{"message":{"role":"user","parts":[{"kind":"text","text":"hi"}]}}
			}`)

			Convey("It responds with 204 No Content", func() {
				So(rec.Code, ShouldEqual, http.StatusNoContent)
			})
		})
	})
}

func TestServeHTTPBatch(t *testing.T) {
	Convey("Given a jsonrpc server", t, func() {
		srv := newTestServer()

		Convey("When a batch of two requests is sent", func() {
			rec := post(t, srv, `[
				{"jsonrpc":"2.0","id":"1","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"a"}]}}},
				{"jsonrpc":"2.0","id":"2","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"b"}]}}}
			]`)

			Convey("It responds with two results", func() {
				var resps []RPCResponse
				So(json.Unmarshal(rec.Body.Bytes(), &resps), ShouldBeNil)
				So(len(resps), ShouldEqual, 2)
			})
		})
	})
}
