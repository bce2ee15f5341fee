package a2a

import (
	"encoding/json"

	"github.com/cohesivestack/valgo"
)

// Transport enumerates the wire protocols a service contract can be exposed
// over. "HTTP+JSON" is reserved for a future transport and is
// never produced by this module.
type Transport string

const (
	TransportJSONRPC  Transport = "JSONRPC"
	TransportGRPC     Transport = "GRPC"
	TransportHTTPJSON Transport = "HTTP+JSON"
)

// SendMessageConfiguration tunes how a send_message call is dispatched.
type SendMessageConfiguration struct {
	AcceptedOutputModes []string                `json:"acceptedOutputModes,omitempty"`
	PushNotification    *PushNotificationConfig `json:"pushNotification,omitempty"`
	HistoryLength       int32                   `json:"historyLength,omitempty"`
	Blocking            bool                    `json:"blocking"`
}

// DefaultSendMessageConfiguration is the configuration a send_message call
// behaves as if supplied when Configuration is absent entirely.
func DefaultSendMessageConfiguration() SendMessageConfiguration {
	return SendMessageConfiguration{
		AcceptedOutputModes: []string{"text/plain"},
		PushNotification:    nil,
		HistoryLength:       0,
		Blocking:            true,
	}
}

type SendMessageRequest struct {
	Message       *Message                  `json:"message,omitempty"`
	Configuration *SendMessageConfiguration `json:"configuration,omitempty"`
	Metadata      Object                    `json:"metadata,omitempty"`
}

// Validate reports whether req carries a usable Message: present, with a
// named Role. Callers that fail this check should surface
// Transport.MissingPayload rather than attempt dispatch.
func (req *SendMessageRequest) Validate() bool {
	if req.Message == nil {
		return false
	}
	return valgo.Is(valgo.String(req.Message.Role.String()).Not().Blank()).Valid()
}

// SendMessageResponsePayloadKind discriminates the SendMessageResponse
// payload, tagged "kind" on the textual wire.
type SendMessageResponsePayloadKind string

const (
	SendMessagePayloadTask    SendMessageResponsePayloadKind = "task"
	SendMessagePayloadMessage SendMessageResponsePayloadKind = "message"
)

// SendMessageResponse wraps exactly one of Task or Message, selected by
// Kind.
type SendMessageResponse struct {
	Kind    SendMessageResponsePayloadKind
	Task    *Task
	Message *Message
}

func TaskResponse(t *Task) SendMessageResponse {
	return SendMessageResponse{Kind: SendMessagePayloadTask, Task: t}
}

func MessageResponse(m *Message) SendMessageResponse {
	return SendMessageResponse{Kind: SendMessagePayloadMessage, Message: m}
}

type taskResponseJSON struct {
	Kind SendMessageResponsePayloadKind `json:"kind"`
	Task *Task                          `json:"task"`
}

type messageResponseJSON struct {
	Kind    SendMessageResponsePayloadKind `json:"kind"`
	Message *Message                       `json:"message"`
}

func (r SendMessageResponse) MarshalJSON() ([]byte, error) {
	if r.Kind == SendMessagePayloadMessage {
		return json.Marshal(messageResponseJSON{Kind: SendMessagePayloadMessage, Message: r.Message})
	}
	return json.Marshal(taskResponseJSON{Kind: SendMessagePayloadTask, Task: r.Task})
}

func (r *SendMessageResponse) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind SendMessageResponsePayloadKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Kind == SendMessagePayloadMessage {
		var v messageResponseJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		r.Kind = SendMessagePayloadMessage
		r.Message = v.Message
		return nil
	}

	var v taskResponseJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Kind = SendMessagePayloadTask
	r.Task = v.Task
	return nil
}

// GetTaskRequest identifies the task to fetch. On the binary wire, the id
// travels as Name in the prefixed form "task/<id>"; NameToID/IDToName
// convert between the two losslessly (binary.go owns the actual field
// encoding, this just centralizes the prefix rule).
type GetTaskRequest struct {
	ID            string `json:"id"`
	HistoryLength int32  `json:"historyLength,omitempty"`
	Metadata      Object `json:"metadata,omitempty"`
}

const taskNamePrefix = "task/"

func IDToName(id string) string {
	return taskNamePrefix + id
}

func NameToID(name string) string {
	if len(name) >= len(taskNamePrefix) && name[:len(taskNamePrefix)] == taskNamePrefix {
		return name[len(taskNamePrefix):]
	}
	return name
}
