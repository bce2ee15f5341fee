package a2a

import "strings"

/*
Message is a single communication unit exchanged between a client and an
agent. The server always overwrites MessageID with a freshly minted UUIDv4
on ingress (see pkg/delegate) — server owns message identity regardless of
what the caller supplied.
*/
type Message struct {
	MessageID  string   `json:"messageId"`
	ContextID  string   `json:"contextId,omitempty"`
	TaskID     string   `json:"taskId,omitempty"`
	Role       Role     `json:"role,omitempty"`
	Parts      []Part   `json:"parts"`
	Metadata   Object   `json:"metadata,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
}

func NewTextMessage(role Role, text string) *Message {
	return &Message{
		Role:  role,
		Parts: []Part{NewTextPart(text)},
	}
}

func NewFileMessage(role Role, file FilePart) *Message {
	return &Message{
		Role:  role,
		Parts: []Part{NewFilePart(file)},
	}
}

func NewDataMessage(role Role, data Object) *Message {
	return &Message{
		Role:  role,
		Parts: []Part{NewDataPart(data)},
	}
}

// String concatenates the text of every text part, for CLI rendering.
func (m *Message) String() string {
	var sb strings.Builder
	for _, part := range m.Parts {
		if part.Kind == PartKindText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
