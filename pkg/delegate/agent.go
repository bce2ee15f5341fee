package delegate

import (
	"context"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
)

/*
Agent is the user-supplied handler the dispatch core delegates to once a
message has been routed to a task. It decides whether the interaction
produced a Task (work in progress, or a final task-shaped result) or a
plain Message (a direct reply), and returns that choice as a
SendMessageResponse payload.
*/
type Agent interface {
	HandleMessage(ctx context.Context, message *a2a.Message, metadata a2a.Object, task *a2a.Task) (a2a.SendMessageResponse, error)
}

// NoopAgent echoes the incoming message back as the response payload. It
// exists for tests and as a default when no real agent is wired in yet.
type NoopAgent struct{}

func (NoopAgent) HandleMessage(ctx context.Context, message *a2a.Message, metadata a2a.Object, task *a2a.Task) (a2a.SendMessageResponse, error) {
	return a2a.MessageResponse(message), nil
}
