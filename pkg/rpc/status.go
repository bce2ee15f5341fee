package rpc

import (
	"context"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
)

// errorCodeTrailerKey is the trailing metadata header name the
// TaskNotFound mapping attaches the numeric A2AErrorCode under.
const errorCodeTrailerKey = "code"

func setErrorCodeTrailer(ctx context.Context, code a2a.ErrorCode) {
	_ = grpc.SetTrailer(ctx, metadata.Pairs(errorCodeTrailerKey, strconv.Itoa(int(code))))
}

// FromStatus reverses the mapping in toStatus: it rebuilds the A2AError a
// server-side toStatus call produced from the status it sent over the
// wire. For NotFound, the task id is always recovered from the fixed
// "Task not found: <id>" message shape; the error code comes from the
// "code" trailer when present and defaults to TaskNotFound otherwise.
func FromStatus(st *status.Status, trailer metadata.MD) error {
	switch st.Code() {
	case codes.NotFound:
		id := strings.TrimPrefix(st.Message(), "Task not found: ")
		code := errorCodeFromTrailer(trailer, a2a.ErrorCodeTaskNotFound)
		if code == a2a.ErrorCodeTaskNotCancelable {
			return a2a.FromProtocolError(a2a.ErrTaskNotCancelable(id))
		}
		return a2a.FromProtocolError(a2a.ErrTaskNotFound(id))
	default:
		return a2a.FromTransportError(a2a.ErrBinaryStatus(int(st.Code()), st.Message()))
	}
}

func errorCodeFromTrailer(trailer metadata.MD, fallback a2a.ErrorCode) a2a.ErrorCode {
	values := trailer.Get(errorCodeTrailerKey)
	if len(values) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return fallback
	}
	return a2a.ErrorCode(n)
}
