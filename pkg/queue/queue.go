package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
)

// DefaultCapacity is the queue depth a server gets when it doesn't
// configure one explicitly.
const DefaultCapacity = 10

// ErrClosed is returned by Push or Take once the queue has been closed.
var ErrClosed = errors.New("queue closed")

/*
BoundedQueue is a FIFO of tasks bounded to a fixed capacity. Push blocks
once the queue is full, applying backpressure to whatever is submitting
work; Take blocks until a task is available.
*/
type BoundedQueue struct {
	tasks     chan *a2a.Task
	closed    chan struct{}
	closeOnce sync.Once
}

// NewBoundedQueue returns a queue with room for capacity tasks before Push
// blocks. capacity <= 0 falls back to DefaultCapacity.
func NewBoundedQueue(capacity int) *BoundedQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BoundedQueue{
		tasks:  make(chan *a2a.Task, capacity),
		closed: make(chan struct{}),
	}
}

// Push enqueues task, blocking while the queue is full. It returns
// ErrClosed if the queue is closed, either before or while blocked.
func (q *BoundedQueue) Push(ctx context.Context, task *a2a.Task) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take dequeues the next task, blocking until one is available. It
// returns ErrClosed once the queue is closed.
func (q *BoundedQueue) Take(ctx context.Context) (*a2a.Task, error) {
	select {
	case <-q.closed:
		return nil, ErrClosed
	default:
	}

	select {
	case task := <-q.tasks:
		return task, nil
	case <-q.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close marks the queue closed; subsequent Push and Take calls fail with
// ErrClosed. The underlying channel is never closed itself, so a Push
// racing with Close can never panic on a send to a closed channel.
// Close is idempotent.
func (q *BoundedQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
}
