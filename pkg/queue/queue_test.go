package queue

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-rpc/pkg/a2a"
)

func TestBoundedQueuePushTake(t *testing.T) {
	Convey("Given a bounded queue of capacity 1", t, func() {
		q := NewBoundedQueue(1)
		ctx := context.Background()

		Convey("A pushed task can be taken back out", func() {
			task := a2a.NewTask("t1", "ctx")
			So(q.Push(ctx, task), ShouldBeNil)

			got, err := q.Take(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, task)
		})

		Convey("Pushing past capacity blocks until a slot frees up", func() {
			first := a2a.NewTask("t1", "ctx")
			second := a2a.NewTask("t2", "ctx")
			So(q.Push(ctx, first), ShouldBeNil)

			done := make(chan error, 1)
			go func() {
				done <- q.Push(ctx, second)
			}()

			select {
			case <-done:
				t.Fatal("push should have blocked while the queue was full")
			case <-time.After(50 * time.Millisecond):
			}

			got, err := q.Take(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, first)

			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(time.Second):
				t.Fatal("push never unblocked after a slot freed up")
			}
		})
	})
}

func TestBoundedQueueTakeBlocksOnEmpty(t *testing.T) {
	Convey("Given an empty bounded queue", t, func() {
		q := NewBoundedQueue(1)

		Convey("Take blocks until a task is pushed", func(c C) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			result := make(chan *a2a.Task, 1)
			go func() {
				task, err := q.Take(ctx)
				c.So(err, ShouldBeNil)
				result <- task
			}()

			select {
			case <-result:
				t.Fatal("take should have blocked on an empty queue")
			case <-time.After(50 * time.Millisecond):
			}

			task := a2a.NewTask("t1", "ctx")
			So(q.Push(ctx, task), ShouldBeNil)

			select {
			case got := <-result:
				So(got, ShouldEqual, task)
			case <-time.After(time.Second):
				t.Fatal("take never returned after a task was pushed")
			}
		})
	})
}

func TestBoundedQueueClose(t *testing.T) {
	Convey("Given a closed bounded queue", t, func() {
		q := NewBoundedQueue(1)
		q.Close()
		ctx := context.Background()

		Convey("Push fails with ErrClosed", func() {
			err := q.Push(ctx, a2a.NewTask("t1", "ctx"))
			So(err, ShouldEqual, ErrClosed)
		})

		Convey("Take fails with ErrClosed", func() {
			_, err := q.Take(ctx)
			So(err, ShouldEqual, ErrClosed)
		})

		Convey("Closing twice does not panic", func() {
			So(func() { q.Close() }, ShouldNotPanic)
		})
	})
}
