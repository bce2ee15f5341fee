package delegate

import (
	"context"

	"github.com/google/uuid"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/queue"
	"github.com/theapemachine/a2a-rpc/pkg/state"
)

/*
Delegate is the dispatch core: it owns the task store, the task
queue, and a reference to the user's Agent, and implements the one
service contract every transport server and the client facade agree
on. Both SendMessage and GetTask are the single place protocol
behavior lives — transports only translate wire shapes into and out of
these two calls.
*/
type Delegate struct {
	Store *state.Store
	Queue *queue.BoundedQueue
	Agent Agent
}

func New(store *state.Store, q *queue.BoundedQueue, agent Agent) *Delegate {
	return &Delegate{Store: store, Queue: q, Agent: agent}
}

func (d *Delegate) SendMessage(ctx context.Context, req *a2a.SendMessageRequest) (*a2a.SendMessageResponse, error) {
	if !req.Validate() {
		return nil, a2a.FromTransportError(a2a.ErrMissingPayload())
	}

	req.Message.MessageID = uuid.NewString()

	configuration := a2a.DefaultSendMessageConfiguration()
	if req.Configuration != nil {
		configuration = *req.Configuration
	}

	task, err := d.resolveTask(ctx, req.Message)
	if err != nil {
		return nil, err
	}

	if configuration.Blocking {
		return d.sendBlocking(ctx, req, task)
	}
	return d.sendNonBlocking(ctx, req, task)
}

func (d *Delegate) resolveTask(ctx context.Context, message *a2a.Message) (*a2a.Task, error) {
	if message.TaskID == "" {
		return a2a.NewTask(uuid.NewString(), uuid.NewString()), nil
	}

	task, err := d.Store.Fetch(ctx, message.TaskID)
	if err != nil {
		return nil, asA2AError(err)
	}
	if task == nil {
		return nil, a2a.FromProtocolError(a2a.ErrTaskNotFound(message.TaskID))
	}
	return task, nil
}

func (d *Delegate) sendBlocking(ctx context.Context, req *a2a.SendMessageRequest, task *a2a.Task) (*a2a.SendMessageResponse, error) {
	payload, err := d.Agent.HandleMessage(ctx, req.Message, req.Metadata, task)
	if err != nil {
		return nil, asA2AError(err)
	}

	if payload.Kind == a2a.SendMessagePayloadTask && payload.Task != nil {
		if _, err := d.Store.Upsert(ctx, payload.Task); err != nil {
			return nil, asA2AError(err)
		}
	}

	return &payload, nil
}

func (d *Delegate) sendNonBlocking(ctx context.Context, req *a2a.SendMessageRequest, task *a2a.Task) (*a2a.SendMessageResponse, error) {
	task.Status = a2a.TaskStatus{State: a2a.TaskStateSubmitted, Message: req.Message}
	task.AddHistory(*req.Message)

	stored, err := d.Store.Upsert(ctx, task)
	if err != nil {
		return nil, asA2AError(err)
	}

	if err := d.Queue.Push(ctx, stored); err != nil {
		return nil, asA2AError(err)
	}

	resp := a2a.TaskResponse(stored)
	return &resp, nil
}

func (d *Delegate) GetTask(ctx context.Context, req *a2a.GetTaskRequest) (*a2a.Task, error) {
	task, err := d.Store.Fetch(ctx, req.ID)
	if err != nil {
		return nil, asA2AError(err)
	}
	if task == nil {
		return nil, a2a.FromProtocolError(a2a.ErrTaskNotFound(req.ID))
	}
	return task.Truncated(int(req.HistoryLength)), nil
}

// asA2AError maps a *state.StoreError (backend unavailable) to a
// transport error before handing off to the general-purpose normalizer,
// per the propagation policy: store failures are wire/IO trouble, not
// agent misbehavior.
func asA2AError(err error) *a2a.A2AError {
	if storeErr, ok := err.(*state.StoreError); ok {
		return a2a.FromTransportError(a2a.ErrIoFailure(storeErr))
	}
	return a2a.AsA2AError(err)
}
