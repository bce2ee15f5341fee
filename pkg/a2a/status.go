package a2a

import "time"

/*
TaskState enumerates the mutually exclusive states a task may be in. The
integer values are the canonical binary-wire discriminants; the textual
wire uses the lowercase, hyphenated string form.
*/
type TaskState int32

const (
	TaskStateUnspecified   TaskState = 0
	TaskStateSubmitted     TaskState = 1
	TaskStateWorking       TaskState = 2
	TaskStateCompleted     TaskState = 3
	TaskStateFailed        TaskState = 4
	TaskStateCancelled     TaskState = 5
	TaskStateInputRequired TaskState = 6
	TaskStateRejected      TaskState = 7
	TaskStateAuthRequired  TaskState = 8
)

var taskStateNames = map[TaskState]string{
	TaskStateUnspecified:   "unspecified",
	TaskStateSubmitted:     "submitted",
	TaskStateWorking:       "working",
	TaskStateCompleted:     "completed",
	TaskStateFailed:        "failed",
	TaskStateCancelled:     "cancelled",
	TaskStateInputRequired: "input-required",
	TaskStateRejected:      "rejected",
	TaskStateAuthRequired:  "auth-required",
}

var taskStateValues = func() map[string]TaskState {
	out := make(map[string]TaskState, len(taskStateNames))
	for k, v := range taskStateNames {
		out[v] = k
	}
	return out
}()

func (s TaskState) String() string {
	if name, ok := taskStateNames[s]; ok {
		return name
	}
	return "unspecified"
}

// Terminal reports whether the state is one from which no further
// transitions are permitted.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCancelled, TaskStateRejected:
		return true
	default:
		return false
	}
}

// Interrupted reports whether the state represents a paused task awaiting
// external input.
func (s TaskState) Interrupted() bool {
	return s == TaskStateInputRequired
}

func (s TaskState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *TaskState) UnmarshalJSON(data []byte) error {
	name := trimQuotes(string(data))
	if v, ok := taskStateValues[name]; ok {
		*s = v
		return nil
	}
	*s = TaskStateUnspecified
	return nil
}

// TaskStatus is the current state of a Task, together with the message that
// explains it and the instant it was set.
type TaskStatus struct {
	State     TaskState  `json:"state"`
	Message   *Message   `json:"message,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
