package a2a

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

/*
Task is the durable unit of work. Once Status.State is terminal, callers
must treat the task as immutable other than re-reading it — mutating a
terminal task is a caller bug, not something this package enforces at the
type level.
*/
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
	History   []Message  `json:"history,omitempty"`
	Metadata  Object     `json:"metadata,omitempty"`
}

func NewTask(id, contextID string) *Task {
	return &Task{
		ID:        id,
		ContextID: contextID,
		Status:    TaskStatus{State: TaskStateUnspecified},
	}
}

func (t *Task) AddArtifact(artifact Artifact) {
	t.Artifacts = append(t.Artifacts, artifact)
}

func (t *Task) AddHistory(message Message) {
	t.History = append(t.History, message)
}

// Truncated returns a copy of the task whose History is limited to the last
// n entries. n <= 0 returns the task unchanged, matching the "0 or absent
// means full history" rule for get_task.
func (t *Task) Truncated(n int) *Task {
	if n <= 0 || len(t.History) <= n {
		return t
	}
	clone := *t
	clone.History = t.History[len(t.History)-n:]
	return &clone
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
)

func (t *Task) String() string {
	var sb strings.Builder

	indent := "   "
	bullet := "│ "

	sb.WriteString(headerStyle.Render("Task Details") + "\n")
	sb.WriteString(bullet + labelStyle.Render("ID: ") + valueStyle.Render(t.ID) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Context ID: ") + valueStyle.Render(t.ContextID) + "\n")

	sb.WriteString("\n" + sectionStyle.Render("Status") + "\n")
	sb.WriteString(bullet + labelStyle.Render("State: ") + valueStyle.Render(t.Status.State.String()) + "\n")
	if t.Status.Message != nil {
		sb.WriteString(bullet + labelStyle.Render("Message: ") + valueStyle.Render(t.Status.Message.String()) + "\n")
	}
	if t.Status.Timestamp != nil {
		sb.WriteString(bullet + labelStyle.Render("Timestamp: ") + valueStyle.Render(t.Status.Timestamp.Format(time.RFC3339)) + "\n")
	}

	if len(t.History) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("History") + "\n")
		for i, message := range t.History {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Message %d", i+1)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Role: ") + valueStyle.Render(message.Role.String()) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Content: ") + valueStyle.Render(message.String()) + "\n")
		}
	}

	if len(t.Artifacts) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Artifacts") + "\n")
		for i, artifact := range t.Artifacts {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Artifact %d", i+1)) + "\n")
			if artifact.Name != "" {
				sb.WriteString(bullet + indent + labelStyle.Render("Name: ") + valueStyle.Render(artifact.Name) + "\n")
			}
			for j, part := range artifact.Parts {
				if part.Kind == PartKindText {
					sb.WriteString(bullet + indent + labelStyle.Render(fmt.Sprintf("Part %d: ", j+1)) + valueStyle.Render(part.Text) + "\n")
				}
			}
		}
	}

	if len(t.Metadata) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Metadata") + "\n")
		keys := make([]string, 0, len(t.Metadata))
		for k := range t.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(bullet + labelStyle.Render(k+": ") + valueStyle.Render(fmt.Sprintf("%v", t.Metadata[k])) + "\n")
		}
	}

	return sb.String()
}
