package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/delegate"
)

/*
Server is the textual transport: it exposes the service contract at
two JSON-RPC 2.0 method names, "message/send" and "tasks/get", over a
single HTTP POST endpoint. Batch requests (a JSON array body) are
supported; each element is dispatched independently and notifications
(no "id") produce no corresponding response entry.
*/
type Server struct {
	delegate *delegate.Delegate
}

func NewServer(d *delegate.Delegate) *Server {
	return &Server{delegate: d}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST supported", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, nil, errInvalidRequest(err.Error()))
		return
	}
	body = bytes.TrimSpace(body)

	if len(body) == 0 {
		respondError(w, nil, errInvalidRequest("empty body"))
		return
	}

	if body[0] == '[' {
		s.serveBatch(w, r, body)
		return
	}

	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, nil, errParseError(err.Error()))
		return
	}

	resp := s.handle(r.Context(), &req)
	if len(req.ID) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) serveBatch(w http.ResponseWriter, r *http.Request, body []byte) {
	var batch []RPCRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		respondError(w, nil, errParseError(err.Error()))
		return
	}

	responses := make([]RPCResponse, 0, len(batch))
	for _, req := range batch {
		resp := s.handle(r.Context(), &req)
		if len(req.ID) != 0 {
			responses = append(responses, resp)
		}
	}

	if len(responses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(responses)
}

func (s *Server) handle(ctx context.Context, req *RPCRequest) RPCResponse {
	if req.JSONRPC != Version {
		return newErrorResponse(req.ID, errInvalidRequest("jsonrpc must be \"2.0\""))
	}

	switch req.Method {
	case "message/send":
		return s.handleSendMessage(ctx, req)
	case "tasks/get":
		return s.handleGetTask(ctx, req)
	default:
		return newErrorResponse(req.ID, &Error{Code: -32601, Message: "Method not found"})
	}
}

func (s *Server) handleSendMessage(ctx context.Context, req *RPCRequest) RPCResponse {
	var params a2a.SendMessageRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return newErrorResponse(req.ID, errInvalidParams(err.Error()))
	}

	resp, err := s.delegate.SendMessage(ctx, &params)
	if err != nil {
		return newErrorResponse(req.ID, toWireError(err))
	}

	return RPCResponse{JSONRPC: Version, ID: req.ID, Result: resp}
}

func (s *Server) handleGetTask(ctx context.Context, req *RPCRequest) RPCResponse {
	var params a2a.GetTaskRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return newErrorResponse(req.ID, errInvalidParams(err.Error()))
	}

	task, err := s.delegate.GetTask(ctx, &params)
	if err != nil {
		return newErrorResponse(req.ID, toWireError(err))
	}

	return RPCResponse{JSONRPC: Version, ID: req.ID, Result: task}
}

// toWireError maps an internal A2AError to the JSON-RPC error object per
// the fixed table: each named Protocol error keeps its code, everything
// else (including any Transport error) becomes the -32000 catch-all with
// a debug rendering of the error as its message.
func toWireError(err error) *Error {
	a2aErr := a2a.AsA2AError(err)
	if a2aErr == nil {
		return &Error{Code: -32000, Message: "Unknown error"}
	}

	if a2aErr.Protocol != nil {
		return &Error{Code: int(a2aErr.Protocol.Code), Message: a2aErr.Protocol.Error()}
	}

	return &Error{Code: -32000, Message: a2aErr.Error()}
}

func newErrorResponse(id json.RawMessage, e *Error) RPCResponse {
	if e == nil {
		e = &Error{Code: -32603, Message: "Internal error"}
	}
	return RPCResponse{JSONRPC: Version, ID: id, Error: e}
}

func respondError(w http.ResponseWriter, id json.RawMessage, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newErrorResponse(id, e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func errParseError(detail string) *Error {
	return &Error{Code: -32700, Message: "Parse error", Data: detail}
}

func errInvalidRequest(detail string) *Error {
	return &Error{Code: -32600, Message: "Invalid Request", Data: detail}
}

func errInvalidParams(detail string) *Error {
	return &Error{Code: -32602, Message: "Invalid params", Data: detail}
}
