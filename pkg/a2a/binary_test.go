package a2a

import (
	"bytes"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleTask() *Task {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	task := NewTask("task-1", "ctx-1")
	task.Status = TaskStatus{
		State:     TaskStateWorking,
		Message:   NewTextMessage(RoleAgent, "working on it"),
		Timestamp: &ts,
	}
	task.AddHistory(*NewTextMessage(RoleUser, "hello"))
	task.AddArtifact(NewTextArtifact("artifact-1", "result", "done"))
	task.Metadata = Object{"priority": float64(1), "tags": []any{"a", "b"}}
	return task
}

func TestTaskBinaryRoundTrip(t *testing.T) {
	Convey("Given a task with history, artifacts and metadata", t, func() {
		original := sampleTask()

		Convey("When it is marshaled and unmarshaled on the binary wire", func() {
			data, err := original.MarshalBinary()
			So(err, ShouldBeNil)

			var decoded Task
			err = decoded.UnmarshalBinary(data)
			So(err, ShouldBeNil)

			Convey("Then the decoded task equals the original", func() {
				So(decoded.ID, ShouldEqual, original.ID)
				So(decoded.ContextID, ShouldEqual, original.ContextID)
				So(decoded.Status.State, ShouldEqual, original.Status.State)
				So(decoded.Status.Message.String(), ShouldEqual, original.Status.Message.String())
				So(decoded.Status.Timestamp.Equal(*original.Status.Timestamp), ShouldBeTrue)
				So(len(decoded.History), ShouldEqual, len(original.History))
				So(decoded.History[0].String(), ShouldEqual, original.History[0].String())
				So(len(decoded.Artifacts), ShouldEqual, len(original.Artifacts))
				So(decoded.Artifacts[0].Name, ShouldEqual, original.Artifacts[0].Name)
				So(decoded.Metadata["priority"], ShouldEqual, original.Metadata["priority"])
			})
		})
	})
}

func TestPartBinaryRoundTrip(t *testing.T) {
	Convey("Given the three kinds of Part", t, func() {
		parts := []Part{
			NewTextPart("hello world"),
			NewFilePart(FilePart{Name: "a.txt", MimeType: "text/plain", Bytes: "aGVsbG8="}),
			NewDataPart(Object{"k": "v", "nested": map[string]any{"n": float64(2)}}),
		}

		for _, p := range parts {
			p := p
			Convey("When a "+string(p.Kind)+" part is round-tripped through the binary codec", func() {
				var buf bytes.Buffer
				writePart(&buf, p)
				decoded, err := readPart(bytes.NewReader(buf.Bytes()))
				So(err, ShouldBeNil)
				So(decoded.Kind, ShouldEqual, p.Kind)

				switch p.Kind {
				case PartKindText:
					So(decoded.Text, ShouldEqual, p.Text)
				case PartKindFile:
					So(decoded.File.Name, ShouldEqual, p.File.Name)
					So(decoded.File.Bytes, ShouldEqual, p.File.Bytes)
				case PartKindData:
					So(decoded.Data["k"], ShouldEqual, p.Data["k"])
				}
			})
		}
	})
}

func TestSendMessageRequestBinaryRoundTrip(t *testing.T) {
	Convey("Given a SendMessageRequest with a configuration", t, func() {
		cfg := DefaultSendMessageConfiguration()
		cfg.HistoryLength = 5
		original := &SendMessageRequest{
			Message:       NewTextMessage(RoleUser, "ping"),
			Configuration: &cfg,
			Metadata:      Object{"trace": "abc"},
		}

		Convey("When marshaled and unmarshaled", func() {
			data, err := original.MarshalBinary()
			So(err, ShouldBeNil)

			var decoded SendMessageRequest
			So(decoded.UnmarshalBinary(data), ShouldBeNil)

			Convey("Then it decodes back to an equivalent request", func() {
				So(decoded.Message.String(), ShouldEqual, original.Message.String())
				So(decoded.Configuration.HistoryLength, ShouldEqual, original.Configuration.HistoryLength)
				So(decoded.Configuration.Blocking, ShouldEqual, original.Configuration.Blocking)
				So(decoded.Metadata["trace"], ShouldEqual, original.Metadata["trace"])
			})
		})
	})
}

func TestSendMessageResponseBinaryRoundTrip(t *testing.T) {
	Convey("Given a SendMessageResponse wrapping a Task", t, func() {
		original := TaskResponse(sampleTask())

		Convey("When marshaled and unmarshaled", func() {
			data, err := original.MarshalBinary()
			So(err, ShouldBeNil)

			var decoded SendMessageResponse
			So(decoded.UnmarshalBinary(data), ShouldBeNil)

			Convey("Then the kind and payload survive", func() {
				So(decoded.Kind, ShouldEqual, SendMessagePayloadTask)
				So(decoded.Task.ID, ShouldEqual, original.Task.ID)
			})
		})
	})

	Convey("Given a SendMessageResponse wrapping a Message", t, func() {
		original := MessageResponse(NewTextMessage(RoleAgent, "done"))

		Convey("When marshaled and unmarshaled", func() {
			data, err := original.MarshalBinary()
			So(err, ShouldBeNil)

			var decoded SendMessageResponse
			So(decoded.UnmarshalBinary(data), ShouldBeNil)

			Convey("Then the kind and payload survive", func() {
				So(decoded.Kind, ShouldEqual, SendMessagePayloadMessage)
				So(decoded.Message.String(), ShouldEqual, original.Message.String())
			})
		})
	})
}

func TestGetTaskRequestNameConversion(t *testing.T) {
	Convey("Given a GetTaskRequest", t, func() {
		req := GetTaskRequest{ID: "task-42", HistoryLength: 3}

		Convey("When converted to and from the binary wire's Name field", func() {
			grpcReq := GetTaskRequestToGrpc(req)
			So(grpcReq.Name, ShouldEqual, "task/task-42")

			back := grpcReq.ToGetTaskRequest()
			Convey("Then the id round-trips losslessly", func() {
				So(back.ID, ShouldEqual, req.ID)
				So(back.HistoryLength, ShouldEqual, req.HistoryLength)
			})
		})
	})
}
