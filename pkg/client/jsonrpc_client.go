package client

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	fiberClient "github.com/gofiber/fiber/v3/client"
	"github.com/google/uuid"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/jsonrpc"
)

/*
JSONRPCClient speaks the textual wire: JSON-RPC 2.0 requests POSTed to
"/rpc", the same endpoint the server side mounts its handler on.
*/
type JSONRPCClient struct {
	baseURL string
	conn    *fiberClient.Client
}

// NewJSONRPCClient returns a client POSTing to baseURL + "/rpc".
func NewJSONRPCClient(baseURL string) *JSONRPCClient {
	return &JSONRPCClient{
		baseURL: baseURL,
		conn:    fiberClient.New().SetBaseURL(baseURL),
	}
}

func (c *JSONRPCClient) SendMessage(ctx context.Context, req *a2a.SendMessageRequest) (*a2a.SendMessageResponse, error) {
	params, err := json.Marshal(req)
	if err != nil {
		return nil, a2a.FromTransportError(a2a.ErrCodecFailure(err))
	}

	resp, err := c.call(ctx, "message/send", params)
	if err != nil {
		return nil, err
	}

	var out a2a.SendMessageResponse
	if err := json.Unmarshal(resp, &out); err != nil {
		return nil, a2a.FromTransportError(a2a.ErrCodecFailure(err))
	}
	return &out, nil
}

func (c *JSONRPCClient) GetTask(ctx context.Context, req *a2a.GetTaskRequest) (*a2a.Task, error) {
	params, err := json.Marshal(req)
	if err != nil {
		return nil, a2a.FromTransportError(a2a.ErrCodecFailure(err))
	}

	resp, err := c.call(ctx, "tasks/get", params)
	if err != nil {
		return nil, err
	}

	var task a2a.Task
	if err := json.Unmarshal(resp, &task); err != nil {
		return nil, a2a.FromTransportError(a2a.ErrCodecFailure(err))
	}
	return &task, nil
}

// call performs one JSON-RPC request/response round trip and reverses the
// server's wire error mapping back into an *a2a.A2AError on failure.
func (c *JSONRPCClient) call(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	id, err := json.Marshal(uuid.NewString())
	if err != nil {
		return nil, a2a.FromTransportError(a2a.ErrCodecFailure(err))
	}

	req := jsonrpc.RPCRequest{JSONRPC: jsonrpc.Version, ID: id, Method: method, Params: params}

	res, err := c.conn.Post("/rpc", fiberClient.Config{
		Header: map[string]string{
			"Content-Type": "application/json",
		},
		Body: req,
	})
	if err != nil {
		return nil, a2a.FromTransportError(a2a.ErrIoFailure(err))
	}

	fm := fiber.Map{}
	if err := res.JSON(&fm); err != nil {
		return nil, a2a.FromTransportError(a2a.ErrCodecFailure(err))
	}

	if errMap, ok := fm["error"].(map[string]any); ok {
		code := int(errMap["code"].(float64))
		message, _ := errMap["message"].(string)
		return nil, reverseJSONRPCError(code, message)
	}

	result, err := json.Marshal(fm["result"])
	if err != nil {
		return nil, a2a.FromTransportError(a2a.ErrCodecFailure(err))
	}
	return result, nil
}

// reverseJSONRPCError undoes pkg/jsonrpc's toWireError: each fixed Protocol
// error code maps back to its named constructor, everything else
// (including the -32000 catch-all used for every Transport error) becomes
// a TransportTextualCall error carrying the raw code and message.
func reverseJSONRPCError(code int, message string) error {
	switch a2a.ErrorCode(code) {
	case a2a.ErrorCodeTaskNotFound:
		return a2a.FromProtocolError(a2a.ErrTaskNotFound(taskIDFromMessage(message)))
	case a2a.ErrorCodeTaskNotCancelable:
		return a2a.FromProtocolError(a2a.ErrTaskNotCancelable(taskIDFromMessage(message)))
	case a2a.ErrorCodePushNotificationNotSupported:
		return a2a.FromProtocolError(a2a.ErrPushNotificationNotSupported())
	case a2a.ErrorCodeUnsupportedOperation:
		return a2a.FromProtocolError(a2a.ErrUnsupportedOperation())
	case a2a.ErrorCodeContentTypeNotSupported:
		return a2a.FromProtocolError(a2a.ErrContentTypeNotSupported())
	case a2a.ErrorCodeInvalidAgentResponse:
		return a2a.FromProtocolError(a2a.ErrInvalidAgentResponse())
	case a2a.ErrorCodeAuthenticatedExtendedCardNotConfigured:
		return a2a.FromProtocolError(a2a.ErrAuthenticatedExtendedCardNotConfigured())
	default:
		return a2a.FromTransportError(a2a.ErrTextualCall(code, message))
	}
}

// taskIDFromMessage strips the fixed "Task not found: " / "Task not
// cancelable: " prefix the server renders ProtocolError.Error() with,
// recovering the bare task id for the reconstructed error.
func taskIDFromMessage(message string) string {
	for _, prefix := range []string{"Task not found: ", "Task not cancelable: "} {
		if len(message) >= len(prefix) && message[:len(prefix)] == prefix {
			return message[len(prefix):]
		}
	}
	return message
}
